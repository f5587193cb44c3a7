package archive

// ArchiveInterface defines the contract for persisting generated digests.
type ArchiveInterface interface {
	Store(filename string, data []byte) error
	Retrieve(filename string) ([]byte, error)
	List(prefix string) ([]string, error)
}
