package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/syntree"
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

var parseShowTrivia bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a file and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sch, err := loadSchema()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		tree, err := syntree.Parse(string(content), sch)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		printNode(tree.Root(), 0)

		summary := color.New(color.Faint)
		summary.Printf("%d bytes, %d top-level nodes\n", tree.Root().Width(), tree.Root().SlotCount())
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseShowTrivia, "trivia", false, "Show leading/trailing trivia on leaves")
}

func printNode(n *red.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := color.CyanString(kindLabel(n))
	span := color.New(color.Faint).Sprintf("[%d..%d)", n.Position(), n.EndPosition())

	if leaf, ok := n.Leaf(); ok {
		text := color.GreenString("%q", leaf.Text())
		if leaf.Kind() == green.KindError {
			text = color.RedString("%q", leaf.Text())
		}
		fmt.Printf("%s%s %s %s\n", indent, kind, span, text)
		if parseShowTrivia {
			printTrivia(indent+"  ", "leading", leaf.LeadingTrivia())
			printTrivia(indent+"  ", "trailing", leaf.TrailingTrivia())
		}
		return
	}

	fmt.Printf("%s%s %s\n", indent, kind, span)
	for i := 0; i < n.SlotCount(); i++ {
		printNode(n.Child(i), depth+1)
	}
}

func kindLabel(n *red.Node) string {
	if syn, ok := n.Green().(*green.SyntaxNode); ok {
		return syn.TypeTag()
	}
	return n.Kind().String()
}

func printTrivia(indent, side string, list green.TriviaList) {
	for _, tr := range list {
		fmt.Printf("%s%s %s\n", indent, color.YellowString(side), color.New(color.Faint).Sprintf("%q", tr.Text))
	}
}
