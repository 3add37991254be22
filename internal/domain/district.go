package domain

// District is the resolver's view of a ZIP code: the congressional district
// plus the legislators currently serving it. This is upstream-shaped data;
// normalization into Representative records happens in the enrichment layer.
type District struct {
	ZipCode     string
	City        string
	State       string
	County      string
	Number      int
	Legislators []DistrictLegislator
}

// DistrictLegislator mirrors the resolver's nested legislator payload.
type DistrictLegislator struct {
	// Type is a free-text role description ("senator", "representative", ...).
	// Chamber classification works by substring match on this field.
	Type       string
	Bio        LegislatorBio
	Contact    LegislatorContact
	Social     LegislatorSocial
	References LegislatorReferences
}

type LegislatorBio struct {
	FirstName string
	LastName  string
	Party     string
	PhotoURL  string
}

type LegislatorContact struct {
	Phone       string
	Address     string
	URL         string
	ContactForm string
}

type LegislatorSocial struct {
	Twitter  string
	Facebook string
	YouTube  string
}

type LegislatorReferences struct {
	BioguideID string
}
