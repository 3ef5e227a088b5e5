package repositories

// FileRepository reads and writes UTF-8 text files and manages workspace directories.
type FileRepository interface {
	// ReadText returns the file content. A missing file yields an error wrapping fs.ErrNotExist.
	ReadText(path string) (string, error)

	// WriteText writes content, creating parent directories as needed.
	WriteText(path string, content string) error

	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool

	// ResolveOutputPath returns filename when absolute, otherwise filename joined to outputDir, cleaned and absolute.
	ResolveOutputPath(filename string, outputDir string) (string, error)

	// CreateWorkspace creates a fresh, uniquely named directory under baseDir (OS temp dir when empty).
	CreateWorkspace(baseDir string) (string, error)

	// RemoveAll deletes a directory tree.
	RemoveAll(path string) error
}
