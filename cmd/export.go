package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"coursetrack/backend"
	"coursetrack/services/export"
	"coursetrack/services/grades"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reports",
}

var exportGradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Export quiz grades as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		search, _ := cmd.Flags().GetString("search")
		courseID, _ := cmd.Flags().GetUint("course-id")
		teacherID, _ := cmd.Flags().GetUint("teacher-id")

		if _, _, err := export.ContentType(format); err != nil {
			return err
		}

		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		be, err := openBackend(cfg, log)
		if err != nil {
			return err
		}
		defer be.Close()

		var f backend.AttemptFilter
		if teacherID > 0 {
			f.TeacherID = &teacherID
		}
		rows, err := be.GetQuizAttempts(cmd.Context(), f)
		if err != nil {
			return err
		}
		gf := grades.Filter{Search: search}
		if courseID > 0 {
			gf.CourseID = &courseID
		}
		table := grades.Build(rows, gf)

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer file.Close()
			w = file
		}
		return export.Write(w, format, table.Rows)
	},
}

func init() {
	exportGradesCmd.Flags().String("format", export.FormatCSV, "Output format: csv or xlsx")
	exportGradesCmd.Flags().StringP("output", "o", "", "Output file (defaults to stdout)")
	exportGradesCmd.Flags().String("search", "", "Match student, course, chapter or lesson")
	exportGradesCmd.Flags().Uint("course-id", 0, "Only this course")
	exportGradesCmd.Flags().Uint("teacher-id", 0, "Only courses taught by this teacher")

	exportCmd.AddCommand(exportGradesCmd)
}
