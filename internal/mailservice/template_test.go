package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	template := &Template{}

	testCases := []struct {
		name         string
		templateName string
		data         any
		contains     string
		expectedErr  bool
	}{
		{
			name:         "approved",
			templateName: "startup_approved.html",
			data: approvedData{
				Name:        "Grace",
				StartupName: "Harvest Link",
				StartupURL:  "https://hub.example.com/startups/42",
			},
			contains:    "https://hub.example.com/startups/42",
			expectedErr: false,
		},
		{
			name:         "submitted",
			templateName: "startup_submitted.html",
			data: submittedData{
				StartupName: "Harvest Link",
				OwnerEmail:  "grace@example.com",
				ReviewURL:   "https://hub.example.com/admin",
			},
			contains:    "grace@example.com",
			expectedErr: false,
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			data:         nil,
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.Contains(t, s.String(), "Harvest Link")
				assert.Contains(t, p.String(), tc.contains)
				assert.Contains(t, h.String(), tc.contains)
			}
		})
	}
}

func TestParseTemplateEscapesHTML(t *testing.T) {
	_, _, h, err := (&Template{}).ParseTemplate("startup_approved.html", approvedData{StartupName: "<script>x</script>"})
	assert.NoError(t, err)
	assert.NotContains(t, h.String(), "<script>")
}

func TestTemplateParsedOnce(t *testing.T) {
	tp := NewTemplate()

	first, err := tp.lookup("startup_approved.html")
	assert.NoError(t, err)

	second, err := tp.lookup("startup_approved.html")
	assert.NoError(t, err)
	assert.Same(t, first, second)
}
