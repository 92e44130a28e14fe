package models

// Options holds the fixed enumerations a listing must draw its
// category, job type and experience level from. Loaded once at startup
// and injected where needed; never mutated afterwards.
type Options struct {
	ExperienceLevels []string `json:"experienceLevels"`
	JobTypes         []string `json:"jobTypes"`
	Categories       []string `json:"categories"`
}

// DefaultOptions returns the server-held option lists.
func DefaultOptions() *Options {
	return &Options{
		ExperienceLevels: []string{
			"Fresher",
			"Junior",
			"Mid",
			"Senior",
			"Lead",
		},
		JobTypes: []string{
			"Full-time",
			"Part-time",
			"Contract",
			"Remote",
			"Hybrid",
		},
		Categories: []string{
			"Web Development",
			"Software Engineering",
			"Data Science",
			"Design",
			"Marketing",
			"Product",
			"DevOps",
			"AI/ML",
		},
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func (o *Options) ValidCategory(value string) bool {
	return contains(o.Categories, value)
}

func (o *Options) ValidJobType(value string) bool {
	return contains(o.JobTypes, value)
}

func (o *Options) ValidExperienceLevel(value string) bool {
	return contains(o.ExperienceLevels, value)
}
