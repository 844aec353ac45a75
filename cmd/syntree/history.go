package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/syntree/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sessions and revisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDatabase()
		if err != nil {
			return err
		}
		if gdb == nil {
			return fmt.Errorf("no database configured (set --db or $SYNTREE_DB)")
		}

		var sessions []models.Session
		if err := gdb.Order("started_at desc").Limit(historyLimit).Find(&sessions).Error; err != nil {
			return err
		}

		header := color.New(color.Bold)
		faint := color.New(color.Faint)
		for _, s := range sessions {
			header.Printf("%s", s.ID)
			faint.Printf("  %s  %s\n", s.StartedAt.Format("2006-01-02 15:04:05"), s.RootPath)

			var revs []models.Revision
			if err := gdb.Where("session_id = ?", s.ID).Order("created_at").Find(&revs).Error; err != nil {
				return err
			}
			for _, r := range revs {
				status := color.GreenString(r.Status)
				if r.Undone {
					status = color.YellowString("undone")
				}
				fmt.Printf("  %s %s  %s  %q\n", r.ID, status, r.FilePath, r.Expression)
			}

			var runs []models.QueryRun
			if err := gdb.Where("session_id = ?", s.ID).Order("created_at").Find(&runs).Error; err != nil {
				return err
			}
			for _, q := range runs {
				fmt.Printf("  %s %s  %q  %d matches in %dms\n",
					q.ID, faint.Sprint("query"), q.Expression, q.MatchCount, q.DurationMS)
			}
		}

		if len(sessions) == 0 {
			faint.Println("no recorded sessions")
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum sessions to list")
}
