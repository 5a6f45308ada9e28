package entity

type ProfileSection string

const (
	SectionEducation    ProfileSection = "education"
	SectionExperience   ProfileSection = "experience"
	SectionLanguages    ProfileSection = "languages"
	SectionPatents      ProfileSection = "patents"
	SectionPublications ProfileSection = "publications"
)

func (s ProfileSection) Valid() bool {
	switch s {
	case SectionEducation, SectionExperience, SectionLanguages, SectionPatents, SectionPublications:
		return true
	}
	return false
}

// ProfileItem is one entry of a profile section. Fields that do not apply to
// a section are left empty.
type ProfileItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Organization string   `json:"organization,omitempty"`
	Degree       string   `json:"degree,omitempty"`
	Level        string   `json:"level,omitempty"`
	Code         string   `json:"code,omitempty"`
	URL          string   `json:"url,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Timestamp    int64    `json:"timestamp"`
}
