package pipeline

import (
	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
)

// StudentRow converts a stored student into a dataset row keyed by column
// name. Absent attributes become missing cells.
func StudentRow(s store.Student) dataset.Row {
	row := dataset.Row{"name": dataset.Text(s.Name)}

	texts := map[string]*string{
		"student_no":           s.StudentNo,
		"gender":               s.Gender,
		"location":             s.Location,
		"famsize":              s.Famsize,
		"pstatus":              s.Pstatus,
		"schoolsup":            s.Schoolsup,
		"famsup":               s.Famsup,
		"paid":                 s.Paid,
		"activities":           s.Activities,
		"nursery":              s.Nursery,
		"higher":               s.Higher,
		"internet":             s.Internet,
		"department":           s.Department,
		"performance_category": s.PerformanceCategory,
	}
	for k, v := range texts {
		if v != nil {
			row[k] = dataset.Text(*v)
		} else {
			row[k] = dataset.Missing()
		}
	}

	ints := map[string]*int{
		"age":        s.Age,
		"medu":       s.Medu,
		"fedu":       s.Fedu,
		"traveltime": s.Traveltime,
		"studytime":  s.Studytime,
		"failures":   s.Failures,
		"famrel":     s.Famrel,
		"freetime":   s.Freetime,
		"health":     s.Health,
		"absences":   s.Absences,
		"semester":   s.Semester,
	}
	for k, v := range ints {
		if v != nil {
			row[k] = dataset.Number(float64(*v))
		} else {
			row[k] = dataset.Missing()
		}
	}

	floats := map[string]*float64{
		"marks":         s.Marks,
		"attendance":    s.Attendance,
		"participation": s.Participation,
		"score":         s.Score,
	}
	for k, v := range floats {
		if v != nil {
			row[k] = dataset.Number(*v)
		} else {
			row[k] = dataset.Missing()
		}
	}
	return row
}

// StudentRows converts students and keeps only the named columns, so the
// missing-value strategy sees just the columns a run uses.
func StudentRows(students []store.Student, cols []string) []dataset.Row {
	rows := make([]dataset.Row, len(students))
	for i, s := range students {
		full := StudentRow(s)
		r := make(dataset.Row, len(cols))
		for _, c := range cols {
			if v, ok := full[c]; ok {
				r[c] = v
			}
		}
		rows[i] = r
	}
	return rows
}
