// --- START OF NEW FILE cmd/keymap-converter/transform.go ---
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stackvity/keymap-converter/pkg/converter"
	tmplhelper "github.com/stackvity/keymap-converter/pkg/converter/template"
)

// newTransformCmd transforms a single keymap.c without touching a download
// or the export directory.
func newTransformCmd() *cobra.Command {
	var (
		strict      bool
		tapDanceOut string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "transform [keymap.c]",
		Short: "Transform one keymap.c, reading stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			} else if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return fmt.Errorf("no keymap.c given and stdin is a terminal")
			}

			var keymap, tapDance bytes.Buffer
			var tapDanceW io.Writer
			if tapDanceOut != "" {
				tapDanceW = &tapDance
			}
			h := commandLogHandler(cmd)
			t, err := converter.TransformKeymap(in, &keymap, tapDanceW, strict, h)
			if err != nil {
				return err
			}

			var files []converter.Artifact
			if outPath != "" {
				files = append(files, converter.Artifact{Name: outPath, Content: keymap.String()})
			} else if _, err := keymap.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
			if tapDanceOut != "" {
				files = append(files, converter.Artifact{Name: tapDanceOut, Content: tapDance.String()})
			}
			if len(files) > 0 {
				if _, err := converter.NewArtifactWriter(h).WriteFiles(cmd.Context(), files); err != nil {
					return err
				}
			}

			unmatched := t.Classifications.Unmatched()
			fmt.Fprintf(cmd.ErrOrStderr(), "%d macros, %d matched, %d left as text\n",
				len(t.Classifications), len(t.Classifications)-len(unmatched), len(unmatched))
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&strict, "strict", converter.DefaultStrict, "Fail when a macro cannot be decoded")
	cmd.Flags().StringVar(&tapDanceOut, "tap-dance-out", "", "Also write the tap dance definitions to this file")
	cmd.Flags().StringVarP(&outPath, "out", "O", "", "Write the keymap to this file instead of stdout")
	return cmd
}

// newCatalogCmd prints petkau_macros.inl as rendered from the built-in
// catalog.
func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the generated petkau_macros.inl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := tmplhelper.LoadDefaultTemplate()
			if err != nil {
				return err
			}
			return tmplhelper.NewCatalogEmitter(nil, tmpl).Emit(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
}

// commandLogHandler logs warnings and errors to the command's stderr, and
// everything with --verbose.
func commandLogHandler(cmd *cobra.Command) slog.Handler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
}

// --- END OF NEW FILE cmd/keymap-converter/transform.go ---
