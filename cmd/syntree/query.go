package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/oxhq/syntree"
	"github.com/oxhq/syntree/models"
	"github.com/oxhq/syntree/query"
	"github.com/oxhq/syntree/schema"
)

var queryExpr string

var queryCmd = &cobra.Command{
	Use:   "query -e EXPR FILE",
	Short: "Run a pattern expression and list its matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryExpr == "" {
			return fmt.Errorf("an expression is required (-e)")
		}

		sch, err := loadSchema()
		if err != nil {
			return err
		}
		if sch == nil {
			// Expressions need a schema for keyword/definition lookup; an
			// empty one covers the structural atoms.
			sch = schema.New("default")
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		tree, err := syntree.Parse(string(content), sch)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		started := time.Now()
		matches, err := tree.SelectExpr(queryExpr)
		if err != nil {
			return err
		}
		elapsed := time.Since(started)

		printMatches(matches)
		fmt.Printf("%d matches\n", len(matches))

		return recordQueryRun(args[0], matches, elapsed)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryExpr, "expr", "e", "", "Pattern expression, e.g. 'seq(ident, block(paren))'")
}

func printMatches(matches []query.Match) {
	pos := color.New(color.Faint)
	for _, m := range matches {
		text := ""
		for _, n := range m.Nodes() {
			text += n.Text()
		}
		pos.Printf("[%d..%d) ", m.Position(), m.Position()+m.Width())
		fmt.Printf("%s\n", color.GreenString("%q", text))
	}
}

func recordQueryRun(path string, matches []query.Match, elapsed time.Duration) error {
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

	type span struct {
		Position int `json:"position"`
		Width    int `json:"width"`
	}
	spans := make([]span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, span{Position: m.Position(), Width: m.Width()})
	}
	payload, _ := json.Marshal(spans)

	run := models.QueryRun{
		ID:         newID("qr"),
		SessionID:  session.ID,
		FilePath:   path,
		Expression: queryExpr,
		MatchCount: len(matches),
		Matches:    datatypes.JSON(payload),
		DurationMS: elapsed.Milliseconds(),
	}
	if err := gdb.Create(&run).Error; err != nil {
		return fmt.Errorf("recording query run: %w", err)
	}
	return gdb.Model(session).Update("queries_count", 1).Error
}
