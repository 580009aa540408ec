package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `S/N,Name,Gender,Age,Location,famsize,Pstatus,Medu,Fedu,traveltime,studytime,failures,schoolsup,famsup,paid,activities,nursery,higher,internet,famrel,freetime,health,absences,Score
1,Ada,F,16,U,GT3,T,4,3,1,3,0,no,yes,no,yes,yes,yes,yes,4,3,5,2,47
2,,M,17,R,LE3,A,2,2,2,1,1,yes,no,no,no,no,yes,no,3,4,3,10,22
3,Cy,F,,U,GT3,T,3,3,1,2.0,0,no,yes,yes,yes,yes,yes,yes,5,2,4,,
`

func TestReadCSV(t *testing.T) {
	students, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, students, 3)

	ada := students[0]
	assert.Equal(t, "Ada", ada.Name)
	require.NotNil(t, ada.StudentNo)
	assert.Equal(t, "1", *ada.StudentNo)
	require.NotNil(t, ada.Studytime)
	assert.Equal(t, 3, *ada.Studytime)
	require.NotNil(t, ada.Score)
	assert.Equal(t, 47.0, *ada.Score)
	require.NotNil(t, ada.Internet)
	assert.Equal(t, "yes", *ada.Internet)

	assert.Equal(t, UnknownName, students[1].Name)

	cy := students[2]
	assert.Nil(t, cy.Age)
	assert.Nil(t, cy.Absences)
	assert.Nil(t, cy.Score)
	require.NotNil(t, cy.Studytime)
	assert.Equal(t, 2, *cy.Studytime)
}

func TestReadCSV_EntryColumns(t *testing.T) {
	in := "Name,Department,Semester,Marks,Attendance,Participation\nBo,CS,3,81.5,90,NA\n\n"
	students, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, students, 1)

	bo := students[0]
	require.NotNil(t, bo.Marks)
	assert.Equal(t, 81.5, *bo.Marks)
	require.NotNil(t, bo.Semester)
	assert.Equal(t, 3, *bo.Semester)
	assert.Nil(t, bo.Participation)
}

func TestReadCSV_ParseError(t *testing.T) {
	in := "Name,studytime\nAda,2\nBo,lots\n"
	_, err := ReadCSV(strings.NewReader(in))

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 3, pe.Row)
	assert.Equal(t, "studytime", pe.Column)
}

func TestReadCSV_FractionalInteger(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,absences\nAda,2.5\n"))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestReadCSV_NoKnownColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorIs(t, err, ErrNoRecognizedColumns)
}

func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"S/N", "Name", "studytime", "absences", "failures", "famrel", "Score"},
		{1, "Ada", 3, 2, 0, 4, 47},
		{2, "Bo", 1, 12, 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	students, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Bo", students[1].Name)
	require.NotNil(t, students[1].Absences)
	assert.Equal(t, 12, *students[1].Absences)
	assert.Nil(t, students[1].Famrel)
	assert.Nil(t, students[1].Score)
}

func TestReadFile_CSVAndUnsupported(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "students.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))
	students, err := ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, students, 3)

	txtPath := filepath.Join(dir, "students.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(sampleCSV), 0o644))
	_, err = ReadFile(txtPath)
	assert.Error(t, err)
}
