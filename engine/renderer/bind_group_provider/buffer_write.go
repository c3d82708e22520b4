package bind_group_provider

// CopyBufferAlignment is the byte alignment WebGPU requires for buffer write offsets and sizes.
const CopyBufferAlignment = 4

// BufferWrite is one queued upload of uniform bytes into the buffer at Binding on Provider.
// The renderer collects one per drawn object each frame and hands them to the backend together.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Aligned reports whether the write can be issued as is: both the offset and the data length
// must be multiples of CopyBufferAlignment.
func (w BufferWrite) Aligned() bool {
	return w.Offset%CopyBufferAlignment == 0 && len(w.Data)%CopyBufferAlignment == 0
}
