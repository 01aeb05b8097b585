// =============================================================================
// Visitor Export - Shared Types
// =============================================================================
//
// This package contains the value types shared by the record store, the
// validator and the exporter. Keeping them here avoids import cycles between
// those packages.
//
// The literal strings below (visit types, id types, site names) are written
// verbatim into the export file, so they are part of the destination system's
// import contract.
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// VISITOR RECORD
// =============================================================================

// VisitorRecord is a canonical visitor row: normalized and ready for preview
// or export.
type VisitorRecord struct {
	// Name is kept verbatim.
	Name string

	// Phone is empty or ends with exactly one "#".
	Phone string

	// IDNumber is empty or ends with exactly one "#".
	IDNumber string

	// Plate contains only A-Z, 0-9 and CJK ideographs. May be empty.
	Plate string
}

// =============================================================================
// VISIT TYPE / ID TYPE
// =============================================================================

// VisitType is the "访问形式" column. The zero value means unset.
type VisitType string

const (
	VisitBusiness    VisitType = "公务拜访"
	VisitCampusVisit VisitType = "入校参观"
)

// ParseVisitType accepts either the literal label or an English alias.
func ParseVisitType(s string) (VisitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(VisitBusiness), "business":
		return VisitBusiness, nil
	case string(VisitCampusVisit), "campus", "campus-visit", "campusvisit":
		return VisitCampusVisit, nil
	}
	return "", fmt.Errorf("unknown visit type %q (want %s or %s)", s, VisitBusiness, VisitCampusVisit)
}

// IDType is the "证件类型" column. The zero value means unset.
type IDType string

const (
	IDNational IDType = "身份证"
	IDPassport IDType = "护照"
)

// ParseIDType accepts either the literal label or an English alias.
func ParseIDType(s string) (IDType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(IDNational), "national", "national-id", "nationalid", "id":
		return IDNational, nil
	case string(IDPassport), "passport":
		return IDPassport, nil
	}
	return "", fmt.Errorf("unknown id type %q (want %s or %s)", s, IDNational, IDPassport)
}

// =============================================================================
// SITES
// =============================================================================

// Site is one of the campus areas a visit may cover.
type Site string

const (
	SiteEast     Site = "东区"
	SiteWest     Site = "西区"
	SiteNorth    Site = "北区"
	SiteMeishan  Site = "梅山校区"
	siteJoinChar      = "@"
)

// AllSites is the fixed enumeration. Its order is the serialization order.
var AllSites = []Site{SiteEast, SiteWest, SiteNorth, SiteMeishan}

// ParseSite resolves a site name against the enumeration.
func ParseSite(s string) (Site, error) {
	s = strings.TrimSpace(s)
	for _, site := range AllSites {
		if string(site) == s {
			return site, nil
		}
	}
	return "", fmt.Errorf("unknown site %q", s)
}

// SiteSet is an unordered selection of sites.
type SiteSet map[Site]struct{}

// NewSiteSet builds a set from the given sites.
func NewSiteSet(sites ...Site) SiteSet {
	set := make(SiteSet, len(sites))
	for _, s := range sites {
		set[s] = struct{}{}
	}
	return set
}

// Add inserts a site.
func (s SiteSet) Add(site Site) {
	s[site] = struct{}{}
}

// Ordered returns the selected sites in enumeration order.
func (s SiteSet) Ordered() []Site {
	out := make([]Site, 0, len(s))
	for _, site := range AllSites {
		if _, ok := s[site]; ok {
			out = append(out, site)
		}
	}
	return out
}

// String joins the selected sites with "@" in enumeration order, independent
// of the order they were selected in.
func (s SiteSet) String() string {
	ordered := s.Ordered()
	parts := make([]string, len(ordered))
	for i, site := range ordered {
		parts[i] = string(site)
	}
	return strings.Join(parts, siteJoinChar)
}

// =============================================================================
// SHARED METADATA
// =============================================================================

// SharedMetadata holds the operator-entered fields common to every row of a
// single export. It is built fresh for each export attempt.
type SharedMetadata struct {
	VisitType VisitType
	IDType    IDType

	// ApproverID is stored without the trailing marker; the exporter adds it.
	ApproverID   string
	ApproverName string

	Reason string
	Sites  SiteSet

	// Start and End are compared and written at minute precision.
	Start time.Time
	End   time.Time
}

// =============================================================================
// APPROVER HISTORY
// =============================================================================

// ApproverEntry is a previously used approver. The pair is treated as a unit.
type ApproverEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
