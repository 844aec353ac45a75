package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/syntree"
	"github.com/oxhq/syntree/core"
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/lexer"
	"github.com/oxhq/syntree/models"
	"github.com/oxhq/syntree/red"
	"github.com/oxhq/syntree/schema"
)

var (
	editExpr    string
	editReplace string
	editNth     int
	editDryRun  bool
	editBackup  bool
)

var editCmd = &cobra.Command{
	Use:   "edit -e EXPR --replace TEXT FILE",
	Short: "Replace a matched span and write the file atomically",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editExpr == "" {
			return fmt.Errorf("an expression is required (-e)")
		}

		sch, err := loadSchema()
		if err != nil {
			return err
		}
		if sch == nil {
			sch = schema.New("default")
		}

		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		original := string(content)

		tree, err := syntree.Parse(original, sch)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		matches, err := tree.SelectExpr(editExpr)
		if err != nil {
			return err
		}
		if editNth < 0 || editNth >= len(matches) {
			return fmt.Errorf("match %d of %d does not exist", editNth, len(matches))
		}
		m := matches[editNth]
		if m.Count == 0 {
			return fmt.Errorf("expression matched a zero-width position; nothing to replace")
		}

		parent := m.Start.Parent()
		if parent == nil {
			return fmt.Errorf("cannot replace the root")
		}
		parentPath := red.PathOf(parent)
		start := m.Start.SiblingIndex()

		replacement := lexer.Tokenize(editReplace, sch.TokenizerOptions())
		nodes := make([]green.Node, 0, replacement.SlotCount())
		for i := 0; i < replacement.SlotCount(); i++ {
			nodes = append(nodes, replacement.Slot(i))
		}

		if err := tree.Replace(parentPath, start, m.Count, nodes...); err != nil {
			return err
		}
		edited := tree.Text()

		diff, err := unifiedDiff(path, original, edited)
		if err != nil {
			return err
		}
		printDiff(diff)

		if editDryRun {
			color.New(color.Faint).Println("dry run, file not written")
			return nil
		}

		config := core.DefaultAtomicConfig()
		config.BackupOriginal = editBackup
		if err := core.NewAtomicWriter(config).WriteFile(path, edited); err != nil {
			return err
		}

		return recordRevision(path, start, m.Count, diff, original, edited)
	},
}

func init() {
	editCmd.Flags().StringVarP(&editExpr, "expr", "e", "", "Pattern expression selecting the span to replace")
	editCmd.Flags().StringVarP(&editReplace, "replace", "r", "", "Replacement text, tokenized with the active schema")
	editCmd.Flags().IntVar(&editNth, "nth", 0, "Which match to edit when several exist")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "Show the diff without writing")
	editCmd.Flags().BoolVar(&editBackup, "backup", true, "Keep a timestamped backup of the original")
}

func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (edited)",
		Context:  3,
	})
}

func printDiff(diff string) {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			add.Print(line)
		case strings.HasPrefix(line, "-"):
			del.Print(line)
		default:
			fmt.Print(line)
		}
	}
}

func recordRevision(path string, start, count int, diff, before, after string) error {
	gdb, err := openDatabase()
	if err != nil {
		return err
	}
	if gdb == nil {
		return nil
	}

	session, err := beginSession(gdb, path, nil)
	if err != nil {
		return err
	}

	rev := models.Revision{
		ID:          newID("rev"),
		SessionID:   session.ID,
		FilePath:    path,
		Expression:  editExpr,
		SpanStart:   start,
		SpanCount:   count,
		Replacement: editReplace,
		Diff:        diff,
		BaseDigest:  digest(before),
		AfterDigest: digest(after),
	}
	if err := gdb.Create(&rev).Error; err != nil {
		return fmt.Errorf("recording revision: %w", err)
	}
	return gdb.Model(session).Update("revisions_count", 1).Error
}
