package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/docgen"
	"github.com/worldforge/atlas/internal/progress"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate the world file schema and CLI reference as markdown",
	Long:  `Writes schema.md (every layer and field in the world file) and a cli/ tree (one markdown page per command) under --out.`,
	RunE:  runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().String("out", "./docs", "output directory")
	if err := viper.BindPFlag("docs.out", docsCmd.Flags().Lookup("out")); err != nil {
		panic(fmt.Sprintf("failed to bind flag out: %v", err))
	}
}

func runDocs(cmd *cobra.Command, args []string) error {
	outDir := viper.GetString("docs.out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	schemaPath := filepath.Join(outDir, "schema.md")
	cliDir := filepath.Join(outDir, "cli")

	tasks := []progress.BatchTask{
		func(ctx context.Context) error { return writeSchemaDoc(s.DB(), schemaPath) },
		func(ctx context.Context) error { return docgen.WriteCLIReference(rootCmd, cliDir) },
	}
	results := progress.RunBatch(cmd.Context(), 2, observer(), "Writing documentation", tasks)
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}

	logger.Info("documentation written", "out", outDir)
	return nil
}

func writeSchemaDoc(db *sql.DB, path string) error {
	docs, err := docgen.DescribeSchema(db)
	if err != nil {
		return fmt.Errorf("describing schema: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := docgen.WriteSchemaMarkdown(f, docs); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
