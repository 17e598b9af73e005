package domain

// MemoryState は永続化されるニューラルメモリの状態です。
type MemoryState struct {
	Descriptor string   `json:"descriptor"`
	History    []string `json:"history"`
}
