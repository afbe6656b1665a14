package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceType_Valid(t *testing.T) {
	assert.True(t, TypeNotes.Valid())
	assert.True(t, TypePapers.Valid())
	assert.True(t, TypeSlides.Valid())
	assert.False(t, ResourceType("Notes").Valid())
	assert.False(t, ResourceType("videos").Valid())
	assert.False(t, ResourceType("").Valid())
	assert.Equal(t, "Papers", TypePapers.Label())
}

func TestResource_Validate(t *testing.T) {
	valid := Resource{
		Title:    "dbms-mid.pdf",
		Subject:  "CS2005",
		Semester: "4",
		Type:     TypePapers,
		FileName: "dbms-mid.pdf",
		URL:      "http://cdn/materials/uploads/dbms-mid.pdf",
	}
	assert.NoError(t, valid.Validate())

	badType := valid
	badType.Type = "videos"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidType)

	badSubject := valid
	badSubject.Subject = "cs2005"
	assert.ErrorIs(t, badSubject.Validate(), ErrInvalidSubject)

	blank := valid
	blank.Semester = "  "
	assert.ErrorIs(t, blank.Validate(), ErrBlankField)
}

func TestResource_Extension(t *testing.T) {
	tests := map[string]string{
		"notes.pdf":         "PDF",
		"slides.final.pptx": "PPTX",
		"README":            "README",
	}
	for name, want := range tests {
		r := Resource{FileName: name}
		assert.Equal(t, want, r.Extension(), name)
	}
}

func TestResource_ViewerURL(t *testing.T) {
	r := Resource{URL: "https://cdn.example.com/materials/uploads/a b.pdf"}

	desktop := "Mozilla/5.0 (X11; Linux x86_64)"
	assert.Equal(t, r.URL, r.ViewerURL(desktop))

	android := "Mozilla/5.0 (Linux; Android 14; Pixel 8)"
	assert.Equal(t,
		"https://docs.google.com/viewer?url=https%3A%2F%2Fcdn.example.com%2Fmaterials%2Fuploads%2Fa+b.pdf",
		r.ViewerURL(android))

	doc := Resource{URL: "https://cdn.example.com/materials/uploads/a.docx"}
	assert.Equal(t, doc.URL, doc.ViewerURL("iphone"))
}

func TestBrowseRoute(t *testing.T) {
	assert.Equal(t, "/subject/cs2005?semester=4", BrowseRoute("CS2005", "4"))
	assert.Equal(t, "/subject/ssx21?semester=3", BrowseRoute("SSX21", "3"))
}

func TestSubjects(t *testing.T) {
	assert.True(t, IsUploadSubject("SSX21"))
	assert.False(t, IsUploadSubject("CS3005"))
	assert.Len(t, UploadSubjects(), 29)

	assert.Equal(t, "Database Systems", SubjectName("cs2005"))
	assert.Equal(t, "XX9999", SubjectName("XX9999"))

	assert.Len(t, Semesters, 6)
	assert.Equal(t, "Theory Of Automata", Semesters[2].Subjects[5].FullName)
}

func TestLookupSubject(t *testing.T) {
	s, ok := LookupSubject(" cs3006 ")
	assert.True(t, ok)
	assert.Equal(t, Subject{Code: "CS3006", FullName: "Parallel and Distributed Computing"}, s)
	assert.False(t, IsUploadSubject("CS3006"))

	_, ok = LookupSubject("XX9999")
	assert.False(t, ok)
}
