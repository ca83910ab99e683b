package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Customers and Orders are two DDL documents where the second references
// the first.
const (
	Customers = `-- customers
CREATE TABLE customers (
    id int NOT NULL PRIMARY KEY,
    name varchar(100) NOT NULL,
    email nvarchar(max) NULL
);
GO
`

	Orders = `use shop;
CREATE TABLE orders (
    id int PRIMARY KEY,
    customer_id int NOT NULL REFERENCES customers ON DELETE CASCADE,
    total decimal(10, 2) DEFAULT 0
);
`
)

// WriteFiles writes name/content pairs into dir and returns the paths in
// argument order. Intermediate directories are created.
func WriteFiles(t testing.TB, dir string, files ...string) []string {
	t.Helper()
	if len(files)%2 != 0 {
		t.Fatalf("WriteFiles needs name/content pairs, got %d values", len(files))
	}

	var paths []string
	for i := 0; i < len(files); i += 2 {
		path := filepath.Join(dir, files[i])
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(files[i+1]), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
