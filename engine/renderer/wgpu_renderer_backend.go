package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/model"
	"github.com/Carmen-Shannon/oxy-phase/engine/phase"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrForeignResource is returned when a handle was not created by this renderer.
	ErrForeignResource = errors.New("resource not created by this renderer")

	// ErrNoSurface is returned when a frame is submitted before the surface is configured.
	ErrNoSurface = errors.New("surface not configured")
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass

	// Layouts shared by every program: group 0 unlit and lit, group 1 texture.
	paramsLayout    *wgpu.BindGroupLayout
	litParamsLayout *wgpu.BindGroupLayout
	textureLayout   *wgpu.BindGroupLayout
	pipelineLayouts map[bool]*wgpu.PipelineLayout

	// Per-object ParamBlocks for a frame, paramStride apart.
	paramBuffer   *wgpu.Buffer
	paramCapacity int
	paramStaging  []byte
	paramGroups   map[*gpuBuffer]*wgpu.BindGroup // nil key is the unlit group

	renderPipelines map[pipelineKey]*wgpu.RenderPipeline
	programs        []*gpuProgram
	textures        []*gpuTexture
	buffers         []*gpuBuffer

	// clear is set by Clear and consumed by the next Submit or DiscardFrame.
	clear frameClear
	draws []drawCommand
}

// drawCommand is one resolved object of a frame.
type drawCommand struct {
	pipeline  *wgpu.RenderPipeline
	params    *wgpu.BindGroup
	texture   *gpuTexture
	mesh      *gpuMesh
	offset    uint32
	indexSize uint32
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Surface() *wgpu.Surface

	// ConfigureSurface (re)creates the swapchain, MSAA and depth attachments for a new size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if an attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// LinkProgram reflects, validates and compiles a WGSL program.
	//
	// Parameters:
	//   - src: the program source
	//
	// Returns:
	//   - technique.Program: the linked program
	//   - error: technique.ErrProgramLinkFailed on validation or compilation failure
	LinkProgram(src technique.ProgramSource) (technique.Program, error)

	// CreateTextureRGBA8 creates a sampled texture and its group 1 bind group.
	//
	// Parameters:
	//   - label: a debug label
	//   - width, height: the size in texels
	//   - pixels: packed 0xAABBGGRR texels
	//
	// Returns:
	//   - common.Texture: the texture handle
	//   - error: an error if creation fails
	CreateTextureRGBA8(label string, width, height uint32, pixels []uint32) (common.Texture, error)

	// CreateStorageBuffer creates a zero-filled storage buffer.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: the size in bytes
	//
	// Returns:
	//   - common.Buffer: the buffer handle
	//   - error: an error if creation fails
	CreateStorageBuffer(label string, size uint64) (common.Buffer, error)

	// UploadModel creates vertex and index buffers for a model.
	//
	// Parameters:
	//   - m: the model to upload
	//
	// Returns:
	//   - Mesh: the uploaded geometry
	//   - error: an error if buffer creation fails
	UploadModel(m model.Model) (Mesh, error)

	// Clear makes the next Submit clear its color attachment.
	Clear(color common.ColorValue, depth float32, stencil uint32) error

	// DiscardFrame drops a clear recorded for a frame that will not be submitted.
	DiscardFrame()

	// UpdateLights writes a light payload into a storage buffer.
	UpdateLights(buf common.Buffer, payload light.Payload) error

	// Submit encodes, submits and presents one frame.
	Submit(objects []*phase.Object) (pipeline.Status, error)

	// Release frees every GPU resource the backend created.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (wgpuRendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:              &sync.Mutex{},
		instance:        wgpu.CreateInstance(nil),
		presentMode:     wgpu.PresentModeImmediate,
		sampleCount:     sampleCount,
		pipelineLayouts: make(map[bool]*wgpu.PipelineLayout, 2),
		paramGroups:     make(map[*gpuBuffer]*wgpu.BindGroup),
		renderPipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.createLayouts(); err != nil {
		return nil, err
	}
	return b, nil
}

// createLayouts creates the bind group and pipeline layouts every program shares.
func (b *wgpuRendererBackendImpl) createLayouts() error {
	var err error
	unlit, lit, tex := paramsLayoutDescriptor(false), paramsLayoutDescriptor(true), textureLayoutDescriptor()
	if b.paramsLayout, err = b.device.CreateBindGroupLayout(&unlit); err != nil {
		return err
	}
	if b.litParamsLayout, err = b.device.CreateBindGroupLayout(&lit); err != nil {
		return err
	}
	if b.textureLayout, err = b.device.CreateBindGroupLayout(&tex); err != nil {
		return err
	}
	for _, isLit := range []bool{false, true} {
		group0 := b.paramsLayout
		if isLit {
			group0 = b.litParamsLayout
		}
		layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            fmt.Sprintf("%s Pipeline Layout", group0Label(isLit)),
			BindGroupLayouts: []*wgpu.BindGroupLayout{group0, b.textureLayout},
		})
		if err != nil {
			return err
		}
		b.pipelineLayouts[isLit] = layout
	}
	return nil
}

func group0Label(lit bool) string {
	if lit {
		return "Lit"
	}
	return "Unlit"
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		if b.msaaTextureView, err = msaaTexture.CreateView(nil); err != nil {
			return err
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	if b.depthTextureView, err = depthTexture.CreateView(nil); err != nil {
		return err
	}

	// Attachments are stored; applyFrameClear sets their load operations every frame.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView, // nil when MSAA is off; set per frame
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              b.depthTextureView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpStore,
			StencilClearValue: 0,
		},
	}

	common.Logger().Debug("surface configured", "width", width, "height", height, "msaa", count)
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) LinkProgram(src technique.ProgramSource) (technique.Program, error) {
	s, err := shader.NewShader(src.Label, src.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", technique.ErrProgramLinkFailed, err)
	}
	lit, err := validateProgram(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", technique.ErrProgramLinkFailed, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", technique.ErrProgramLinkFailed, src.Label, err)
	}
	p := &gpuProgram{
		label:  src.Label,
		shader: s,
		module: module,
		lit:    lit,
	}
	b.programs = append(b.programs, p)
	common.Logger().Debug("program linked", "program", src.Label, "lit", lit)
	return p, nil
}

func (b *wgpuRendererBackendImpl) CreateTextureRGBA8(label string, width, height uint32, pixels []uint32) (common.Texture, error) {
	if uint64(len(pixels)) != uint64(width)*uint64(height) {
		return nil, fmt.Errorf("texture %s: %d texels for %dx%d", label, len(pixels), width, height)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t := &gpuTexture{label: label}
	var err error
	t.texture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(pixels)*4)
	for i, p := range pixels {
		binary.LittleEndian.PutUint32(data[i*4:], p)
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	if t.view, err = t.texture.CreateView(nil); err != nil {
		t.release()
		return nil, err
	}
	t.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		t.release()
		return nil, err
	}
	t.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: t.view},
			{Binding: 1, Sampler: t.sampler},
		},
	})
	if err != nil {
		t.release()
		return nil, err
	}
	b.textures = append(b.textures, t)
	return t, nil
}

func (b *wgpuRendererBackendImpl) CreateStorageBuffer(label string, size uint64) (common.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	gb := &gpuBuffer{label: label, size: size, buffer: buf}
	b.buffers = append(b.buffers, gb)
	return gb, nil
}

func (b *wgpuRendererBackendImpl) UploadModel(m model.Model) (Mesh, error) {
	if m.IndexCount() == 0 {
		return nil, fmt.Errorf("model %s has no indices", m.Name())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := &gpuMesh{
		label:      m.Name(),
		capability: m.Capability(),
		indexCount: m.IndexCount(),
	}
	vertexData, indexData := m.VertexData(), m.IndexData()

	var err error
	out.vertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(out.vertexBuffer, 0, vertexData)

	out.indexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		out.Release()
		return nil, err
	}
	b.queue.WriteBuffer(out.indexBuffer, 0, indexData)

	return out, nil
}

func (b *wgpuRendererBackendImpl) Clear(color common.ColorValue, depth float32, stencil uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return ErrNoSurface
	}
	b.clear = frameClear{
		pending: true,
		color: wgpu.Color{
			R: float64(color[0]),
			G: float64(color[1]),
			B: float64(color[2]),
			A: float64(color[3]),
		},
		depth:   depth,
		stencil: stencil,
	}
	return nil
}

func (b *wgpuRendererBackendImpl) DiscardFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear = frameClear{}
}

func (b *wgpuRendererBackendImpl) UpdateLights(buf common.Buffer, payload light.Payload) error {
	gb, ok := buf.(*gpuBuffer)
	if !ok {
		return fmt.Errorf("light buffer %v: %w", buf, ErrForeignResource)
	}
	if end := payload.Offset + uint64(len(payload.Data)); end > gb.size {
		return fmt.Errorf("light payload ends at %d, buffer %s holds %d bytes", end, gb.label, gb.size)
	}
	if len(payload.Data) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue.WriteBuffer(gb.buffer, payload.Offset, payload.Data)
	return nil
}

func (b *wgpuRendererBackendImpl) Submit(objects []*phase.Object) (pipeline.Status, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// The clear request belongs to this frame whether or not it is drawn.
	request := b.clear
	b.clear = frameClear{}

	if b.renderPassDescriptor == nil {
		return pipeline.Status{}, ErrNoSurface
	}
	if err := b.ensureParamCapacity(len(objects)); err != nil {
		return pipeline.Status{}, err
	}
	if err := b.prepareDraws(objects); err != nil {
		return pipeline.Status{}, err
	}
	if n := len(objects) * paramStride; n > 0 {
		b.queue.WriteBuffer(b.paramBuffer, 0, b.paramStaging[:n])
	}

	return b.encodeFrame(request)
}

// ensureParamCapacity grows the param buffer to hold n objects. Growing drops the group 0
// bind groups, which reference the old buffer.
func (b *wgpuRendererBackendImpl) ensureParamCapacity(n int) error {
	if b.paramBuffer != nil && n <= b.paramCapacity {
		return nil
	}
	capacity := paramCapacity(n, max(b.paramCapacity, 64))
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Params Buffer",
		Size:  uint64(capacity * paramStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	if b.paramBuffer != nil {
		b.paramBuffer.Release()
	}
	for k, g := range b.paramGroups {
		g.Release()
		delete(b.paramGroups, k)
	}
	b.paramBuffer = buf
	b.paramCapacity = capacity
	b.paramStaging = make([]byte, capacity*paramStride)
	common.Logger().Debug("param buffer resized", "objects", capacity)
	return nil
}

// prepareDraws resolves every object to GPU handles and stages its params, so that a
// failure is reported before any command is encoded.
func (b *wgpuRendererBackendImpl) prepareDraws(objects []*phase.Object) error {
	b.draws = b.draws[:0]
	for i, o := range objects {
		prog, ok := o.Program.(*gpuProgram)
		if !ok {
			return fmt.Errorf("object %d program: %w", i, ErrForeignResource)
		}
		src, ok := o.Drawable.(MeshSource)
		if !ok {
			return fmt.Errorf("object %d: drawable %T has no uploaded mesh", i, o.Drawable)
		}
		m, ok := src.GPUMesh().(*gpuMesh)
		if !ok || m.vertexBuffer == nil {
			return fmt.Errorf("object %d mesh: %w", i, ErrForeignResource)
		}
		tex, ok := o.Params.Texture.(*gpuTexture)
		if !ok {
			return fmt.Errorf("object %d texture: %w", i, ErrForeignResource)
		}
		var lights *gpuBuffer
		if prog.lit {
			if lights, ok = o.Params.Lights.(*gpuBuffer); !ok {
				return fmt.Errorf("object %d: lit program %s without a light buffer", i, prog.label)
			}
		}

		rp, err := b.renderPipeline(prog, o.State)
		if err != nil {
			return err
		}
		group, err := b.paramGroup(lights)
		if err != nil {
			return err
		}

		o.Params.MarshalTo(b.paramStaging[i*paramStride:])
		b.draws = append(b.draws, drawCommand{
			pipeline:  rp,
			params:    group,
			texture:   tex,
			mesh:      m,
			offset:    uint32(i * paramStride),
			indexSize: uint32(m.indexCount),
		})
	}
	return nil
}

// renderPipeline returns the cached pipeline for a program and draw state, creating it on
// first use.
func (b *wgpuRendererBackendImpl) renderPipeline(prog *gpuProgram, state drawstate.DrawState) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{program: prog, state: state.Key()}
	if rp, ok := b.renderPipelines[key]; ok {
		return rp, nil
	}

	vertexLayout, _ := prog.shader.VertexLayout()
	rp, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  prog.label + "/" + state.Key() + " Render Pipeline",
		Layout: b.pipelineLayouts[prog.lit],
		Vertex: wgpu.VertexState{
			Module:     prog.module,
			EntryPoint: prog.shader.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.module,
			EntryPoint: prog.shader.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{colorTargetState(*b.surfaceFormat, state)},
		},
		Primitive: primitiveState(state),
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencilState(state),
	})
	if err != nil {
		return nil, fmt.Errorf("render pipeline %s/%s: %w", prog.label, state.Key(), err)
	}
	b.renderPipelines[key] = rp
	common.Logger().Debug("render pipeline created", "program", prog.label, "state", state.Key())
	return rp, nil
}

// paramGroup returns the group 0 bind group for a light buffer; nil selects the unlit layout.
func (b *wgpuRendererBackendImpl) paramGroup(lights *gpuBuffer) (*wgpu.BindGroup, error) {
	if g, ok := b.paramGroups[lights]; ok {
		return g, nil
	}
	desc := &wgpu.BindGroupDescriptor{
		Label:  "Params Bind Group",
		Layout: b.paramsLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  b.paramBuffer,
			Offset:  0,
			Size:    technique.ParamBlockSize,
		}},
	}
	if lights != nil {
		desc.Label = "Lit Params Bind Group"
		desc.Layout = b.litParamsLayout
		desc.Entries = append(desc.Entries, wgpu.BindGroupEntry{
			Binding: 1,
			Buffer:  lights.buffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		})
	}
	g, err := b.device.CreateBindGroup(desc)
	if err != nil {
		return nil, err
	}
	b.paramGroups[lights] = g
	return g, nil
}

// encodeFrame records the prepared draws into one render pass, submits it and presents.
func (b *wgpuRendererBackendImpl) encodeFrame(request frameClear) (pipeline.Status, error) {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return pipeline.Status{}, err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return pipeline.Status{}, err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return pipeline.Status{}, err
	}
	defer encoder.Release()

	applyFrameClear(b.renderPassDescriptor, request)
	ca := &b.renderPassDescriptor.ColorAttachments[0]

	// With MSAA the swapchain view is the resolve target, otherwise the color view.
	if b.sampleCount > 1 {
		ca.ResolveTarget = view
	} else {
		ca.View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	var status pipeline.Status
	var current *wgpu.RenderPipeline
	var boundTexture *gpuTexture
	for _, d := range b.draws {
		if d.pipeline != current {
			pass.SetPipeline(d.pipeline)
			current = d.pipeline
			status.PipelineSwitches++
		}
		pass.SetBindGroup(0, d.params, []uint32{d.offset})
		if d.texture != boundTexture {
			pass.SetBindGroup(1, d.texture.bindGroup, nil)
			boundTexture = d.texture
		}
		pass.SetVertexBuffer(0, d.mesh.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.indexSize, 1, 0, 0, 0)
		status.DrawCalls++
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return pipeline.Status{}, err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return status, nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rp := range b.renderPipelines {
		rp.Release()
	}
	clear(b.renderPipelines)
	for _, g := range b.paramGroups {
		g.Release()
	}
	clear(b.paramGroups)
	for _, p := range b.programs {
		p.release()
	}
	for _, t := range b.textures {
		t.release()
	}
	for _, buf := range b.buffers {
		buf.release()
	}
	b.programs, b.textures, b.buffers = nil, nil, nil
	if b.paramBuffer != nil {
		b.paramBuffer.Release()
		b.paramBuffer = nil
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}
