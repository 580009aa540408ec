package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/studentperf/internal/importer"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/spf13/cobra"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage student records",
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored students",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		students, err := s.Students().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(students) == 0 {
			fmt.Fprintln(out, "No students found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-20s  %-6s  %4s  %5s  %8s  %6s  %6s  %s\n",
			"ID", "Name", "Gender", "Age", "Study", "Absences", "Marks", "Score", "Category")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, st := range students {
			name := st.Name
			if len(name) > 20 {
				name = name[:17] + "..."
			}
			fmt.Fprintf(out, "%-5d  %-20s  %-6s  %4s  %5s  %8s  %6s  %6s  %s\n",
				st.ID, name, orDash(st.Gender), intOrDash(st.Age), intOrDash(st.Studytime),
				intOrDash(st.Absences), floatOrDash(st.Marks), floatOrDash(st.Score),
				orDash(st.PerformanceCategory))
		}
		fmt.Fprintf(out, "\n%d students\n", len(students))
		return nil
	},
}

var studentAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add one student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.Student{Name: args[0]}
		f := cmd.Flags()

		for flag, dst := range map[string]**string{
			"gender":     &st.Gender,
			"department": &st.Department,
		} {
			if f.Changed(flag) {
				v, _ := f.GetString(flag)
				*dst = &v
			}
		}
		for flag, dst := range map[string]**int{
			"age":       &st.Age,
			"studytime": &st.Studytime,
			"failures":  &st.Failures,
			"famrel":    &st.Famrel,
			"absences":  &st.Absences,
			"semester":  &st.Semester,
		} {
			if f.Changed(flag) {
				v, _ := f.GetInt(flag)
				*dst = &v
			}
		}
		for flag, dst := range map[string]**float64{
			"marks":         &st.Marks,
			"attendance":    &st.Attendance,
			"participation": &st.Participation,
			"score":         &st.Score,
		} {
			if f.Changed(flag) {
				v, _ := f.GetFloat64(flag)
				*dst = &v
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Students().Add(cmd.Context(), &st); err != nil {
			return fmt.Errorf("add student: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added student %d (%s)", st.ID, st.Name)
		if st.PerformanceCategory != nil {
			fmt.Fprintf(cmd.OutOrStdout(), ", category %s", *st.PerformanceCategory)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var studentImportCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Replace all students with the rows of a CSV or Excel file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		students, err := importer.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Students().ReplaceAll(cmd.Context(), students)
		if err != nil {
			return fmt.Errorf("store students: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d students from %s\n", n, args[0])
		return nil
	},
}

var studentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Students().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete student %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted student %d\n", id)
		return nil
	},
}

func init() {
	f := studentAddCmd.Flags()
	f.String("gender", "", "Gender (F or M)")
	f.String("department", "", "Department")
	f.Int("age", 0, "Age in years")
	f.Int("studytime", 0, "Weekly study time band (1-4)")
	f.Int("failures", 0, "Number of past class failures")
	f.Int("famrel", 0, "Quality of family relationships (1-5)")
	f.Int("absences", 0, "Number of absences")
	f.Int("semester", 0, "Semester")
	f.Float64("marks", 0, "Marks (0-100)")
	f.Float64("attendance", 0, "Attendance percentage")
	f.Float64("participation", 0, "Participation score (0-100)")
	f.Float64("score", 0, "Raw score; sets the performance category")

	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentImportCmd)
	studentCmd.AddCommand(studentDeleteCmd)
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func floatOrDash(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 1, 64)
}
