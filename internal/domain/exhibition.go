package domain

import "time"

// ExhibitionCard is the listing view model for one exhibition, derived each
// request from a content-object query and discarded after render.
type ExhibitionCard struct {
	Handle      string     `json:"handle"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	DateLabel   string     `json:"dateLabel,omitempty"`
	HeroImage   string     `json:"heroImage,omitempty"`
	HeroAspect  string     `json:"heroAspect,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	IsGroupShow bool       `json:"isGroupShow"`
}

// Exhibition is the detail view model, extending the card with long-form
// content.
type Exhibition struct {
	ExhibitionCard
	BodyHTML     string   `json:"bodyHtml,omitempty"`
	PressRelease string   `json:"pressRelease,omitempty"`
	InstallShots []string `json:"installShots,omitempty"`
}

// IsCurrent reports whether the exhibition is running at the given time.
// Open-ended exhibitions count as current once started.
func (e *ExhibitionCard) IsCurrent(now time.Time) bool {
	if e.StartDate != nil && now.Before(*e.StartDate) {
		return false
	}
	if e.EndDate != nil && now.After(e.EndDate.Add(24*time.Hour)) {
		return false
	}
	return e.StartDate != nil || e.EndDate != nil
}

// Artist is the view model for an artist content object.
type Artist struct {
	Handle       string `json:"handle"`
	Name         string `json:"name"`
	Portrait     string `json:"portrait,omitempty"`
	BiographyHTML string `json:"biographyHtml,omitempty"`
	ShortBio     string `json:"shortBio,omitempty"`
}

// AboutPage is the view model for the gallery's information page.
type AboutPage struct {
	Title     string `json:"title"`
	ShortText string `json:"shortText,omitempty"`
	BodyHTML  string `json:"bodyHtml,omitempty"`
	Image     string `json:"image,omitempty"`
}
