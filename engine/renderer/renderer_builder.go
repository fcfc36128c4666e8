package renderer

// RendererBuilderOption configures a renderer created by NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode selects how submitted frames reach the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the sample count of the color and depth attachments every technique draws into.
// Defaults to MSAA4x; render pipelines are built for this count.
//
// Parameters:
//   - count: MSAAOff, MSAA4x, MSAA8x or MSAA16x
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer requests the fallback (CPU) adapter. A software Vulkan driver such as
// lavapipe or SwiftShader must be installed.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
