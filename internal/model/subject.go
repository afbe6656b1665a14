package model

import (
	"sort"
	"strings"
)

// Subject is a course offered in a semester.
type Subject struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

// Semester groups the subjects taught in it.
type Semester struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subjects []Subject `json:"subjects"`
}

// uploadSubjects is the closed set of codes accepted at upload time.
var uploadSubjects = map[string]struct{}{}

func init() {
	for _, code := range []string{
		"NS1001", "MT1003", "SS1012", "SS1013", "CL1000", "CS1002",
		"SS2043", "EE1005", "SS1014", "SS1007", "MT1008", "CS1004",
		"EE2003", "CS2001", "CS1005", "SE1001", "MT1004", "SSX21",
		"CS2005", "CS2006", "SS1015", "MT2005", "SE2004", "SE2001",
		"AI2002", "CS2009", "SE3004", "SE3002", "SS2012",
	} {
		uploadSubjects[code] = struct{}{}
	}
}

// IsUploadSubject reports whether code is accepted for uploads. The match
// is exact; "cs2005" is not accepted.
func IsUploadSubject(code string) bool {
	_, ok := uploadSubjects[code]
	return ok
}

// UploadSubjects returns the accepted upload codes, sorted.
func UploadSubjects() []string {
	out := make([]string, 0, len(uploadSubjects))
	for code := range uploadSubjects {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

var subjectNames = map[string]string{
	"NS1001": "Applied Physics",
	"MT1003": "Calculus and Analytical Geometry",
	"SS1012": "Functional English",
	"SS1013": "Ideology and Constitution of Pakistan",
	"CL1000": "Introduction to Information and Communication Technology",
	"CS1002": "Programming Fundamentals",
	"CS1004": "Object Oriented Programming",
	"MT1008": "Multivariable Calculus",
	"EE1005": "Digital Logic Design",
	"SS1014": "Expository Writing",
	"SS1007": "Islamic Studies/Ethics",
	"SS2043": "Civics and Community Engagement",
	"EE2003": "Computer Organization and Assembly Language",
	"CS2001": "Data Structures and Algorithms",
	"CS1005": "Discrete Structures",
	"SE1001": "Introduction to Software Engineering",
	"MT1004": "Linear Algebra",
	"SSX21":  "Social Science Elective - I",
	"CS3005": "Theory Of Automata",
	"CS2005": "Database Systems",
	"CS2006": "Operating Systems",
	"MT2005": "Probability and Statistics",
	"SE2004": "Software Design and Architecture",
	"SE2001": "Software Requirements Engineering",
	"AI2002": "Artificial Intelligence",
	"CS2009": "Design and Analysis of Algorithms",
	"SE3004": "Software Construction and Development",
	"SE3002": "Software Quality Engineering",
	"SS2007": "Technical and Business Writing",
	"CS3001": "Computer Networks",
	"SE4002": "Fundamentals of Software Project Management",
	"CS3006": "Parallel and Distributed Computing",
}

// SubjectName returns the full name of a subject code, looked up
// case-insensitively. Unknown codes fall back to the code as given.
func SubjectName(code string) string {
	if name, ok := subjectNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// LookupSubject returns the subject for code, matched case-insensitively.
func LookupSubject(code string) (Subject, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	name, ok := subjectNames[c]
	if !ok {
		return Subject{}, false
	}
	return Subject{Code: c, FullName: name}, true
}

func subjects(codes ...string) []Subject {
	out := make([]Subject, 0, len(codes))
	for _, c := range codes {
		out = append(out, Subject{Code: c, FullName: SubjectName(c)})
	}
	return out
}

// Semesters is the browse directory, in display order.
var Semesters = []Semester{
	{ID: "1", Title: "Semester 1", Subjects: subjects("CS1002", "NS1001", "MT1003", "SS1012", "SS1013", "CL1000")},
	{ID: "2", Title: "Semester 2", Subjects: subjects("CS1004", "MT1008", "EE1005", "SS1014", "SS1007", "SS2043")},
	{ID: "3", Title: "Semester 3", Subjects: subjects("EE2003", "CS2001", "CS1005", "SE1001", "MT1004", "CS3005")},
	{ID: "4", Title: "Semester 4", Subjects: subjects("CS2005", "CS2006", "MT2005", "SE2004", "SE2001")},
	{ID: "5", Title: "Semester 5", Subjects: subjects("AI2002", "CS2009", "SE3004", "SE3002", "SS2007")},
	{ID: "6", Title: "Semester 6", Subjects: subjects("CS3001", "SE4002", "CS3006")},
}
