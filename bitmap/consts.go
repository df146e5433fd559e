package bitmap

const (
	bitsPerFrame  = 2
	framesPerByte = 8 / bitsPerFrame
	stateMask     = 1<<bitsPerFrame - 1
)
