package startupservice

import (
	"slices"
	"strings"
	"time"

	"github.com/sushihentaime/startuphub/internal/common"
)

func validateStartup(v *common.Validator, in *StartupInput) {
	in.Name = strings.TrimSpace(in.Name)
	v.Check(in.Name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(in.Name, 2, 100), "name", "must be between 2 and 100 characters long")
	v.Check(v.CheckStringLength(in.Tagline, 0, 160), "tagline", "must not be more than 160 characters long")

	v.Check(slices.Contains(Sectors, in.Sector), "sector", "must be one of "+strings.Join(Sectors, ", "))
	v.Check(slices.Contains(Stages, in.Stage), "stage", "must be one of "+strings.Join(Stages, ", "))

	checkURL(v, in.Website, "website")
	checkURL(v, in.LogoURL, "logo_url")
	for _, g := range in.Gallery {
		checkURL(v, g, "gallery")
	}
	for _, d := range in.Documents {
		v.Check(d.Name != "", "documents", "every document needs a name")
		checkURL(v, d.URL, "documents")
	}
	for _, p := range in.PressMentions {
		checkURL(v, p.URL, "press_mentions")
	}
	for _, f := range in.Founders {
		v.Check(f.Name != "", "founders", "every founder needs a name")
	}

	if in.FoundedYear != 0 {
		v.Check(in.FoundedYear >= 1900 && in.FoundedYear <= time.Now().Year(), "founded_year", "must be a valid year")
	}
	v.Check(in.TeamSize >= 0, "team_size", "must not be negative")
	v.Check(in.Valuation >= 0, "valuation", "must not be negative")
	v.Check(in.AmountRaised >= 0, "amount_raised", "must not be negative")
	v.Check(v.CheckStringLength(in.Feedback, 0, 1000), "feedback", "must not be more than 1000 characters long")
}

func checkURL(v *common.Validator, url, field string) {
	if url != "" {
		v.Check(common.IsHTTPURL(url), field, "must be a valid http or https URL")
	}
}
