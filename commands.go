package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirkon/spanwrap/internal/diag"
	"github.com/sirkon/spanwrap/internal/rewrite"
)

func (a *app) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "Print the instrumented version of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}

			res, err := rewrite.New(a.cfg).WithPackageScope(a.siblingScope(args[0], src)).Rewrite(args[0], src)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(res.Source)
			return err
		},
	}
}

func (a *app) rewriteCommand() *cobra.Command {
	var (
		output      string
		overlayFile string
		tests       bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite [-o DIR] [--overlay FILE] PATTERNS...",
		Short: "Write instrumented copies of packages and a build overlay",
		Long: `rewrite instruments every annotated function of the packages matching the
patterns. Changed files are written into the output directory and listed in an
overlay file usable with

	go build -overlay FILE

Nothing is written when any file has problems.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				output = a.cfg.Output
			}
			if !cmd.Flags().Changed("tests") {
				tests = a.cfg.Tests
			}
			if overlayFile == "" {
				overlayFile = filepath.Join(output, "overlay.json")
			}

			files, err := a.loadSources(args, tests)
			if err != nil {
				return err
			}

			results, reports, err := a.rewriteAll(files)
			if err != nil {
				return err
			}
			if len(reports) > 0 {
				return printReports(cmd.ErrOrStderr(), reports)
			}

			return a.writeResults(results, output, overlayFile)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&overlayFile, "overlay", "", "overlay file (default DIR/overlay.json)")
	cmd.Flags().BoolVar(&tests, "tests", false, "include test files")

	return cmd
}

func (a *app) writeResults(results []rewritten, output, overlayFile string) error {
	ov := overlay{Replace: map[string]string{}}
	for _, r := range results {
		if !r.res.Changed {
			continue
		}

		dst, err := filepath.Abs(outputPath(output, r.sourceFile))
		if err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(dst, r.res.Source, 0o644); err != nil {
			return fmt.Errorf("write instrumented file: %w", err)
		}

		ov.Replace[r.path] = dst
		a.logger.Info("instrumented", zap.String("file", r.path), zap.String("output", dst), zap.Int("functions", len(r.res.Expansions)))
	}

	data, err := json.MarshalIndent(ov, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(overlayFile), 0o755); err != nil {
		return fmt.Errorf("create overlay directory: %w", err)
	}
	if err := os.WriteFile(overlayFile, data, 0o644); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}

	a.logger.Info("overlay written", zap.String("file", overlayFile), zap.Int("files", len(ov.Replace)))
	return nil
}

func (a *app) checkCommand() *cobra.Command {
	var tests bool

	cmd := &cobra.Command{
		Use:   "check PATTERNS...",
		Short: "Report problems of spanwrap directives without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tests") {
				tests = a.cfg.Tests
			}

			files, err := a.loadSources(args, tests)
			if err != nil {
				return err
			}

			results, reports, err := a.rewriteAll(files)
			if err != nil {
				return err
			}
			if len(reports) > 0 {
				return printReports(cmd.ErrOrStderr(), reports)
			}

			count := 0
			for _, r := range results {
				count += len(r.res.Expansions)
			}
			a.logger.Info("no problems found", zap.Int("files", len(results)), zap.Int("functions", count))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tests, "tests", false, "include test files")
	return cmd
}

// printReports writes diagnostics one per line and returns the error ending the run.
func printReports(w io.Writer, reports []diag.Report) error {
	for _, rep := range reports {
		fmt.Fprintln(w, rep)
	}

	return fmt.Errorf("%d problem(s) found", len(reports))
}
