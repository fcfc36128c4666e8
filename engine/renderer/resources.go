package renderer

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuProgram is a linked WGSL module. The render pipelines built from it are created
// lazily per draw state and cached by the backend.
type gpuProgram struct {
	label  string
	shader shader.Shader
	module *wgpu.ShaderModule
	// lit programs read the light buffer at group 0 binding 1.
	lit bool
}

// gpuTexture is a sampled RGBA8 texture together with its group 1 bind group.
type gpuTexture struct {
	label     string
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

// gpuMesh is uploaded indexed geometry.
type gpuMesh struct {
	label        string
	capability   mesh.Capability
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// gpuBuffer is a storage buffer.
type gpuBuffer struct {
	label  string
	size   uint64
	buffer *wgpu.Buffer
}

var (
	_ technique.Program = &gpuProgram{}
	_ common.Texture    = &gpuTexture{}
	_ common.Buffer     = &gpuBuffer{}
	_ Mesh              = &gpuMesh{}
)

func (p *gpuProgram) Label() string { return p.label }

func (t *gpuTexture) Label() string { return t.label }

func (b *gpuBuffer) Label() string { return b.label }

func (b *gpuBuffer) Size() uint64 { return b.size }

func (m *gpuMesh) Label() string { return m.label }

func (m *gpuMesh) Capability() mesh.Capability { return m.capability }

func (m *gpuMesh) IndexCount() int { return m.indexCount }

func (m *gpuMesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

func (p *gpuProgram) release() {
	if p.module != nil {
		p.module.Release()
	}
}

func (t *gpuTexture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.sampler != nil {
		t.sampler.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

func (b *gpuBuffer) release() {
	if b.buffer != nil {
		b.buffer.Release()
	}
}
