package portfolio

import "github.com/conneroisu/folio/internal/theme"

// Sample returns a complete example record, used to scaffold new data files.
func Sample() Data {
	return Data{
		FullName: "Ada Lovelace",
		Role:     "Analytical Engine Programmer",
		Location: "London, UK",
		Intro:    "I write programs for machines that do not exist yet, and notes that outlive them.",
		Email:    "ada@example.com",
		Phone:    "+44 20 7946 0958",
		Website:  "example.com",
		LinkedIn: "linkedin.com/in/ada",
		GitHub:   "github.com/ada",
		Skills:   Skills{"Mathematics", "Algorithms", "Technical Writing"},
		Experiences: []Experience{
			{
				Title:    "Translator and Annotator",
				Company:  "Analytical Engine Project",
				Location: "London",
				Dates:    "1842 - 1843",
				Bullets: Lines{
					"Translated Menabrea's memoir on the Analytical Engine",
					"Wrote Note G, the first published algorithm for a machine",
				},
			},
		},
		Education: []Education{
			{Degree: "Private tutoring in mathematics", School: "Augustus De Morgan", Year: "1840"},
		},
		Certifications: []Certification{
			{Name: "Fellow", Issuer: "Royal Society of Arts", Year: "1843"},
		},
		Theme: theme.Default,
	}
}
