package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/cogentcore/webgpu/wgpu"
)

// LitShaderSource is the WGSL source of the single forward pipeline.
//
//go:embed shaders/lit.wgsl
var LitShaderSource string

// surfaceDescriptorProvider is implemented by hosts that own a native window, such as
// window.Window.
type surfaceDescriptorProvider interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// wgpuMesh holds the GPU resources of one uploaded mesh.
type wgpuMesh struct {
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	indexCount    uint32
	uniformBuffer *wgpu.Buffer

	// owned textures; nil when the mesh samples the shared defaults
	mapTexture    *wgpu.Texture
	mapView       *wgpu.TextureView
	normalTexture *wgpu.Texture
	normalView    *wgpu.TextureView

	bindGroup *wgpu.BindGroup
}

func (m *wgpuMesh) release() {
	if m.bindGroup != nil {
		m.bindGroup.Release()
	}
	for _, v := range []*wgpu.TextureView{m.mapView, m.normalView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{m.mapTexture, m.normalTexture} {
		if t != nil {
			t.Release()
		}
	}
	for _, b := range []*wgpu.Buffer{m.vertexBuffer, m.indexBuffer, m.uniformBuffer} {
		if b != nil {
			b.Release()
		}
	}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	cfg    backendConfig
	logger logging.Logger

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	configured    bool

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameLayout    *wgpu.BindGroupLayout
	meshLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	shaderModule   *wgpu.ShaderModule
	pipeline       *wgpu.RenderPipeline

	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup
	sampler        *wgpu.Sampler

	defaultMapTexture    *wgpu.Texture
	defaultMapView       *wgpu.TextureView
	defaultNormalTexture *wgpu.Texture
	defaultNormalView    *wgpu.TextureView

	meshes map[string]*wgpuMesh
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(cfg backendConfig, logger logging.Logger) *wgpuRendererBackendImpl {
	b := &wgpuRendererBackendImpl{
		mu:     &sync.Mutex{},
		cfg:    cfg,
		logger: logging.OrNop(logger),
		meshes: make(map[string]*wgpuMesh),
	}
	switch cfg.presentMode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
	return b
}

func (b *wgpuRendererBackendImpl) Attach(h host.Host) error {
	provider, ok := h.(surfaceDescriptorProvider)
	if !ok {
		return errors.New("host does not provide a WebGPU surface descriptor")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// wgpu-native and GLFW both expect calls from the thread that created the window.
	runtime.LockOSThread()

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(provider.SurfaceDescriptor())

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return fmt.Errorf("failed to request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	if err := b.initPipeline(); err != nil {
		return err
	}
	if err := b.initSharedResources(); err != nil {
		return err
	}
	b.logger.Infof("webgpu backend ready: format=%v msaa=%d", b.surfaceFormat, b.cfg.sampleCount)
	return nil
}

func (b *wgpuRendererBackendImpl) initPipeline() error {
	var err error
	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: FrameUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group layout: %w", err)
	}

	b.meshLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Mesh Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: MeshUniformsSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create mesh bind group layout: %w", err)
	}

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.meshLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	b.shaderModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "lit.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: LitShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile lit shader: %w", err)
	}

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Lit Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: geometry.VertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.cfg.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create lit pipeline: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) initSharedResources() error {
	var err error
	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  FrameUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame uniform buffer: %w", err)
	}

	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.frameBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
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
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	b.defaultMapTexture, b.defaultMapView, err = b.createTexture("Default Color Map", &common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1,
	})
	if err != nil {
		return err
	}
	b.defaultNormalTexture, b.defaultNormalView, err = b.createTexture("Default Normal Map", &common.TextureStagingData{
		Pixels: []byte{128, 128, 255, 255}, Width: 1, Height: 1, Linear: true,
	})
	return err
}

func (b *wgpuRendererBackendImpl) createTexture(label string, data *common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error) {
	format := wgpu.TextureFormatRGBA8UnormSrgb
	if data.Linear {
		format = wgpu.TextureFormatRGBA8Unorm
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create texture %s: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create view for texture %s: %w", label, err)
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Draw refuses to run until every attachment below exists again.
	b.configured = false
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})

	b.releaseAttachments()

	count := uint32(b.cfg.sampleCount)
	if count > 1 {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create msaa texture: %w", err)
		}
		b.msaaTexture = tex
		if b.msaaView, err = tex.CreateView(nil); err != nil {
			return fmt.Errorf("failed to create msaa view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depth
	if b.depthView, err = depth.CreateView(nil); err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	b.configured = true
	b.logger.Debugf("surface configured %dx%d", width, height)
	return nil
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Upload(id string, assets MeshAssets) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.meshes[id]; ok {
		old.release()
		delete(b.meshes, id)
	}

	m := &wgpuMesh{indexCount: uint32(len(assets.Data.Indices))}
	fail := func(err error) error {
		m.release()
		return err
	}

	vertexData := common.SliceToBytes(assets.Data.Vertices)
	indexData := common.SliceToBytes(assets.Data.Indices)
	if len(vertexData) == 0 || len(indexData) == 0 {
		return errors.New("mesh has no vertex or index data")
	}

	var err error
	if m.vertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: assets.Label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fail(err)
	}
	b.queue.WriteBuffer(m.vertexBuffer, 0, vertexData)

	if m.indexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: assets.Label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fail(err)
	}
	b.queue.WriteBuffer(m.indexBuffer, 0, indexData)

	if m.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: assets.Label + " Uniform Buffer",
		Size:  MeshUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fail(err)
	}

	mapView, normalView := b.defaultMapView, b.defaultNormalView
	if assets.Map != nil {
		if m.mapTexture, m.mapView, err = b.createTexture(assets.Label+" Color Map", assets.Map); err != nil {
			return fail(err)
		}
		mapView = m.mapView
	}
	if assets.NormalMap != nil {
		normal := *assets.NormalMap
		normal.Linear = true
		if m.normalTexture, m.normalView, err = b.createTexture(assets.Label+" Normal Map", &normal); err != nil {
			return fail(err)
		}
		normalView = m.normalView
	}

	if m.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  assets.Label + " Bind Group",
		Layout: b.meshLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: mapView},
			{Binding: 2, TextureView: normalView},
			{Binding: 3, Sampler: b.sampler},
		},
	}); err != nil {
		return fail(err)
	}

	b.meshes[id] = m
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(frame *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return errors.New("surface not configured")
	}

	b.queue.WriteBuffer(b.frameBuffer, 0, frame.Uniforms.Marshal())
	for i := range frame.Draws {
		d := &frame.Draws[i]
		m, ok := b.meshes[d.MeshID]
		if !ok {
			return fmt.Errorf("mesh %s was not uploaded", d.MeshID)
		}
		b.queue.WriteBuffer(m.uniformBuffer, 0, d.Uniforms.Marshal())
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	// With MSAA the multisampled texture is the attachment and the swapchain view is the
	// resolve target. Without it the swapchain view is drawn to directly.
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(frame.Clear.R),
			G: float64(frame.Clear.G),
			B: float64(frame.Clear.B),
			A: float64(frame.Clear.A),
		},
	}
	if b.msaaView != nil {
		color.View = b.msaaView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.frameBindGroup, nil)
	for _, d := range frame.Draws {
		m := b.meshes[d.MeshID]
		pass.SetBindGroup(1, m.bindGroup, nil)
		pass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, m := range b.meshes {
		m.release()
		delete(b.meshes, id)
	}
	b.releaseAttachments()

	for _, v := range []*wgpu.TextureView{b.defaultMapView, b.defaultNormalView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{b.defaultMapTexture, b.defaultNormalTexture} {
		if t != nil {
			t.Release()
		}
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
	}
	if b.frameBuffer != nil {
		b.frameBuffer.Release()
	}
	if b.pipeline != nil {
		b.pipeline.Release()
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{b.meshLayout, b.frameLayout} {
		if l != nil {
			l.Release()
		}
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	*b = wgpuRendererBackendImpl{mu: b.mu, cfg: b.cfg, logger: b.logger, meshes: b.meshes}
}
