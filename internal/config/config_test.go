package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
[auth]
email = "meow@example.com"
password = "hunter2"

[site]
organization_id = "org-42"
site_id = "site-7"
base_url = "https://portal.example.com"
location = "Kyoto"

[battery]
capacity_kwh = 16.5
reserve_percent = 30
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "meow@example.com", cfg.Auth.Email)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, "org-42", cfg.Site.OrganizationID)
	assert.Equal(t, "site-7", cfg.Site.SiteID)
	assert.Equal(t, "https://portal.example.com", cfg.Site.BaseURL)
	assert.Equal(t, "Kyoto", cfg.Site.Location)
	assert.Equal(t, 16.5, cfg.Battery.CapacityKWH)
	assert.Equal(t, 30.0, cfg.Battery.ReservePercent)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[auth]
email = "a@b.c"
password = "p"

[site]
organization_id = "o"
site_id = "s"
`))
	require.NoError(t, err)

	assert.Equal(t, "https://sr.en.kyocera-solar.jp", cfg.Site.BaseURL)
	assert.Equal(t, "Japan", cfg.Site.Location)
	assert.Equal(t, 7.0, cfg.Battery.CapacityKWH)
	assert.Equal(t, 30.0, cfg.Battery.ReservePercent)
}

func TestParse_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{
			name: "no email",
			toml: "[auth]\npassword = \"p\"\n[site]\norganization_id = \"o\"\nsite_id = \"s\"\n",
			want: "email",
		},
		{
			name: "no password",
			toml: "[auth]\nemail = \"a@b.c\"\n[site]\norganization_id = \"o\"\nsite_id = \"s\"\n",
			want: "password",
		},
		{
			name: "no organization",
			toml: "[auth]\nemail = \"a@b.c\"\npassword = \"p\"\n[site]\nsite_id = \"s\"\n",
			want: "organization_id",
		},
		{
			name: "no site",
			toml: "[auth]\nemail = \"a@b.c\"\npassword = \"p\"\n[site]\norganization_id = \"o\"\n",
			want: "site_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_BatteryValidation(t *testing.T) {
	base := "[auth]\nemail = \"a@b.c\"\npassword = \"p\"\n[site]\norganization_id = \"o\"\nsite_id = \"s\"\n[battery]\n"

	_, err := Parse([]byte(base + "capacity_kwh = 0.0\n"))
	assert.ErrorContains(t, err, "capacity_kwh")

	_, err = Parse([]byte(base + "reserve_percent = 120.0\n"))
	assert.ErrorContains(t, err, "reserve_percent")

	_, err = Parse([]byte(base + "reserve_percent = -1.0\n"))
	assert.ErrorContains(t, err, "reserve_percent")
}

func TestParse_MalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[auth\nemail ="))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "not found")
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "org-42", cfg.Site.OrganizationID)
}

func TestBattery_UsableKWH(t *testing.T) {
	b := Battery{CapacityKWH: 16.5, ReservePercent: 30}
	assert.InDelta(t, 11.55, b.UsableKWH(), 1e-9)
}
