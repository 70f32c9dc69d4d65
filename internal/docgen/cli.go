package docgen

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// WriteCLIReference renders one markdown file per command under dir,
// the Go-ecosystem equivalent of clap_markdown::help_markdown's
// single-document CLI reference.
func WriteCLIReference(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return atlaserr.Backend("docgen", err, "creating %s", dir)
	}
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return atlaserr.Backend("docgen", err, "generating CLI reference in %s", dir)
	}
	return nil
}
