package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/syntree"
	"github.com/oxhq/syntree/core"
	"github.com/oxhq/syntree/green"
)

var (
	checkInclude []string
	checkExclude []string
	checkMax     int
)

var checkCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Parse every matching file and verify byte-exact reconstruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sch, err := loadSchema()
		if err != nil {
			return err
		}

		scope := core.FileScope{
			Path:     args[0],
			Include:  checkInclude,
			Exclude:  checkExclude,
			MaxFiles: checkMax,
		}
		results, err := core.NewFileWalker().Walk(context.Background(), scope)
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen)
		fail := color.New(color.FgRed)

		checked, failed, errors := 0, 0, 0
		for result := range results {
			if result.Error != nil {
				errors++
				fail.Printf("ERR  %s: %v\n", result.Path, result.Error)
				continue
			}
			content, err := os.ReadFile(result.Path)
			if err != nil {
				errors++
				fail.Printf("ERR  %s: %v\n", result.Path, err)
				continue
			}

			tree, err := syntree.Parse(string(content), sch)
			if err != nil {
				errors++
				fail.Printf("ERR  %s: %v\n", result.Path, err)
				continue
			}

			checked++
			if tree.Text() != string(content) {
				failed++
				fail.Printf("FAIL %s: reconstruction differs\n", result.Path)
				continue
			}

			if debugMode {
				flags := tree.GreenRoot().Flags()
				note := ""
				if flags&green.FlagContainsError != 0 {
					note = " (error nodes preserved)"
				}
				ok.Printf("OK   %s%s\n", result.Path, note)
			}
		}

		fmt.Printf("%d files checked, %d failed, %d errors\n", checked, failed, errors)
		if failed > 0 || errors > 0 {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkInclude, "include", nil, "Include file patterns (glob, ** supported)")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude", nil, "Exclude file patterns (glob)")
	checkCmd.Flags().IntVar(&checkMax, "max-files", 0, "Maximum number of files to check (0 = unlimited)")
}
