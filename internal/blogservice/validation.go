package blogservice

import (
	"regexp"

	"github.com/sushihentaime/startuphub/internal/common"
)

var (
	SlugRX  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	ColorRX = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 3, 150), "title", "must be between 3 and 150 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
	v.Check(len(slug) <= 160, "slug", "must not be more than 160 characters long")
	v.Check(SlugRX.MatchString(slug), "slug", "must only contain lowercase letters, numbers and single hyphens")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateExcerpt(v *common.Validator, excerpt string) {
	v.Check(v.CheckStringLength(excerpt, 0, 300), "excerpt", "must not be more than 300 characters long")
}

func validateStatus(v *common.Validator, status Status) {
	v.Check(common.PermittedValue(status, StatusDraft, StatusPublished, StatusArchived), "status", "must be one of draft, published or archived")
}

func validateCoverImage(v *common.Validator, url string) {
	if url != "" {
		v.Check(common.IsHTTPURL(url), "cover_image", "must be a valid http or https URL")
	}
}

func validateCategoryID(v *common.Validator, id *int64) {
	if id != nil {
		v.Check(*id > 0, "category_id", "must be greater than zero")
	}
}

func validateCategory(v *common.Validator, name, color string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 2, 50), "name", "must be between 2 and 50 characters long")
	if color != "" {
		v.Check(ColorRX.MatchString(color), "color", "must be a hex color such as #1f2937")
	}
}

func validatePage(v *common.Validator, limit, offset int) {
	v.Check(limit > 0 && limit <= 100, "limit", "must be between 1 and 100")
	v.Check(offset >= 0, "offset", "must not be negative")
}
