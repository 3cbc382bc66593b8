package datagraph

// ExportDestroyOrderForTest exposes Block.destroy to the external test
// package so TestBlockDestroyReverseOrder can observe it without widening
// the public API.
func ExportDestroyOrderForTest(b *Block) []Node {
	return b.destroy()
}
