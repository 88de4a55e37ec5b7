package mail

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Directory maps carrier names to their customer service contact addresses.
// Lookups fall back to a conventional address derived from the carrier name
// when no entry exists.
type Directory struct {
	contacts map[string]string
}

// directoryFile is the YAML shape of a carrier contact file:
//
//	carriers:
//	  - name: FedEx Freight
//	    email: freight.support@fedex.com
type directoryFile struct {
	Carriers []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"carriers"`
}

// DefaultDirectory returns the built-in carrier contact directory.
func DefaultDirectory() *Directory {
	return &Directory{contacts: map[string]string{
		"fedex freight": "freight.support@fedex.com",
		"yrc freight":   "customercare@yrcfreight.com",
		"xpo logistics": "ltl.service@xpo.com",
		"old dominion":  "customer.service@odfl.com",
		"ups freight":   "freightsupport@ups.com",
		"estes express": "customercare@estes-express.com",
	}}
}

// LoadDirectory reads a carrier contact file in YAML format. Entries merge
// over the built-in defaults.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carrier file: %w", err)
	}

	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse carrier file %s: %w", path, err)
	}

	dir := DefaultDirectory()
	for _, c := range file.Carriers {
		if c.Name == "" || c.Email == "" {
			continue
		}
		dir.contacts[strings.ToLower(c.Name)] = c.Email
	}
	return dir, nil
}

// Contact returns the customer service address for a carrier. Unknown
// carriers get a conventional customer.service@<carrier>.com address.
func (d *Directory) Contact(carrier string) string {
	key := strings.ToLower(strings.TrimSpace(carrier))
	if email, ok := d.contacts[key]; ok {
		return email
	}
	return "customer.service@" + carrierDomain(carrier) + ".com"
}

func carrierDomain(carrier string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(carrier) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "carrier"
	}
	return b.String()
}
