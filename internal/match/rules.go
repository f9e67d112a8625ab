package match

import (
	"fmt"

	"github.com/spf13/viper"
)

// Weights are the score adjustments applied on top of the base similarity
// ratio. The magnitudes are empirically tuned against real listing data;
// they are configuration, not derived values.
type Weights struct {
	BrandMatch       float64 `mapstructure:"brand_match"`
	BrandMismatch    float64 `mapstructure:"brand_mismatch"`
	SizeMatch        float64 `mapstructure:"size_match"`
	SizeMismatch     float64 `mapstructure:"size_mismatch"`
	PackMatch        float64 `mapstructure:"pack_match"`
	PackFreeMatch    float64 `mapstructure:"pack_free_match"`
	PackMismatch     float64 `mapstructure:"pack_mismatch"`
	PackFlagMismatch float64 `mapstructure:"pack_flag_mismatch"`
	BulkCatalogue    float64 `mapstructure:"bulk_catalogue"`
	BulkListing      float64 `mapstructure:"bulk_listing"`
	BundleCase       float64 `mapstructure:"bundle_case"`
}

// SpecialRule maps a listing regex to the exact CMS product name it should
// resolve to. First matching rule wins.
type SpecialRule struct {
	Pattern string `mapstructure:"pattern"`
	Name    string `mapstructure:"name"`
}

// ManualCost maps a title fragment to a cost for products the CMS catalogue
// does not carry.
type ManualCost struct {
	Fragment string  `mapstructure:"fragment"`
	Cost     float64 `mapstructure:"cost"`
	Name     string  `mapstructure:"name"`
}

// BoxPrice is wholesale box pricing for the assorted-cosmetics brands,
// keyed by product subtype.
type BoxPrice struct {
	Subtype  string  `mapstructure:"subtype"`
	BoxPrice float64 `mapstructure:"box_price"`
	Units    int     `mapstructure:"units"`
}

// SetMember is one sub-product of a product-set listing.
type SetMember struct {
	Keywords []string `mapstructure:"keywords"`
	Name     string   `mapstructure:"name"`
}

// ProductSet describes listings that sell several catalogue products as one
// set and must be split into per-product candidates.
type ProductSet struct {
	Keywords []string    `mapstructure:"keywords"`
	Members  []SetMember `mapstructure:"members"`
}

// VariantMarker penalizes a one-sided token mismatch (catalogue has the
// token, listing doesn't, or vice versa). Brand/Type optionally scope the
// marker to one product family.
type VariantMarker struct {
	Tokens  []string `mapstructure:"tokens"`
	Penalty float64  `mapstructure:"penalty"`
	Brand   string   `mapstructure:"brand"`
	Type    string   `mapstructure:"type"`
}

// BracketRule handles titles ending in "[...]": the bracketed variant is
// substituted into the title for downstream matching, except for the one
// brand+variant combination that maps straight to a manual cost.
type BracketRule struct {
	Brand   string  `mapstructure:"brand"`
	Variant string  `mapstructure:"variant"`
	Cost    float64 `mapstructure:"cost"`
	Name    string  `mapstructure:"name"`
}

// Rules is the full immutable lookup configuration injected into the
// Matcher. Edits are data changes: the tables load from a YAML file and
// overlay these compiled-in defaults.
type Rules struct {
	Brands          []string        `mapstructure:"brands"`
	Types           []string        `mapstructure:"types"`
	Suffixes        []string        `mapstructure:"suffixes"`
	SpecialRules    []SpecialRule   `mapstructure:"special_rules"`
	ManualCosts     []ManualCost    `mapstructure:"manual_costs"`
	AssortedBrands  []string        `mapstructure:"assorted_brands"`
	AssortedDefault float64         `mapstructure:"assorted_default_cost"`
	BoxPrices       []BoxPrice      `mapstructure:"box_prices"`
	ProductSets     []ProductSet    `mapstructure:"product_sets"`
	Bracket         BracketRule     `mapstructure:"bracket"`
	VariantMarkers  []VariantMarker `mapstructure:"variant_markers"`
	BulkCatalogue   []string        `mapstructure:"bulk_catalogue_markers"`
	BulkListing     []string        `mapstructure:"bulk_listing_markers"`
	Weights         Weights         `mapstructure:"weights"`
}

// DefaultRules returns the compiled-in tables.
func DefaultRules() Rules {
	return Rules{
		Brands: []string{
			"kojie san",
			"gluta-c",
			"flawlessly u",
			"silka",
			"likas",
			"belo",
			"extract",
			"dr. s. wong",
			"renew",
			"c. y. gabriel",
			"c.y. gabriel",
			"closeup",
			"cream silk",
			"eskinol",
			"maxi-peel",
			"master",
			"safeguard",
			"bioderm",
		},
		// priority order: multiword types first so "face wash" never reads
		// as a bare "wash" miss
		Types: []string{
			"face wash", "body wash", "soap", "lotion", "toner",
			"cream", "deodorant", "cleanser", "serum",
		},
		Suffixes: []string{"philippines", "ph", "usa", "uk", "authentic"},
		SpecialRules: []SpecialRule{
			{`gluta kojic body lotion.*spf.*300ml`, "Gluta-C with Kojic Plus Skin Lightening & Brightening Body Lotion 300ml"},
			{`gluta lotion.*spf.*300ml`, "Gluta-C Skin Lightening & Brightening Body Lotion 300ml"},
			{`gluta.?c.*face.*neck cream.*spf`, "Gluta-C Intense Whitening Face & Neck Cream 25g"},
			{`gluta.?c.*kojic.*soap.*(2\s*x|x\s*2)`, "Gluta-C with Kojic Plus Whitening Soap 60g x 2"},
			{`kojie san.*(trio|3 pack|x\s*3)`, "Kojie San Skin Lightening & Brightening Soap 100g x 3"},
			{`kojie san.*(duo|2 pack|x\s*2)`, "Kojie San Skin Lightening & Brightening Soap 135g x 2"},
			{`kojie san.*body lotion.*250`, "Kojie San Skin Lightening Body Lotion 250ml"},
			{`kojie san.*face.*cream.*30g`, "Kojie San Face Lightening Cream 30g"},
			{`silka.*green papaya.*soap.*135`, "Silka Green Papaya Soap 135g"},
			{`silka.*papaya.*lotion.*500`, "Silka Papaya Whitening Lotion 500ml"},
			{`silka.*papaya.*lotion.*300`, "Silka Papaya Whitening Lotion 300ml"},
			{`likas.*papaya.*soap`, "Likas Papaya Herbal Soap 135g"},
			{`belo.*kojic.*soap.*(2|duo)`, "Belo Intensive Whitening Kojic Acid Soap 65g x 2"},
			{`belo.*body lotion.*spf`, "Belo Intensive Whitening Body Lotion SPF30 200ml"},
			{`extract.*calamansi.*soap.*125`, "Extract Papaya Calamansi Soap 125g"},
			{`extract.*calamansi.*lotion.*200`, "Extract Papaya Calamansi Lotion 200ml"},
			{`eskinol.*pimple fighting`, "Eskinol Pimple Fighting Facial Deep Cleanser 225ml"},
			{`eskinol.*classic.*225`, "Eskinol Classic White Facial Deep Cleanser 225ml"},
			{`maxi.?peel.*exfoliant solution.*(no\.?\s*3|#\s*3)`, "Maxi-Peel Exfoliant Solution No. 3 60ml"},
			{`maxi.?peel.*soap`, "Maxi-Peel Micro-Exfoliant Soap 125g"},
			{`cream silk.*conditioner.*(sachet|11ml)`, "Cream Silk Standout Straight Conditioner 11ml x 6"},
			{`master.*facial wash.*active`, "Master Active Brightening Facial Wash 100ml"},
			{`safeguard.*white.*13[05]`, "Safeguard Pure White Soap 130g"},
			{`bioderm.*(germicidal|coolness).*soap`, "Bioderm Coolness Germicidal Soap 135g"},
			{`green cross.*alcohol.*500`, "Green Cross Ethyl Alcohol with Moisturizer 500ml"},
		},
		ManualCosts: []ManualCost{
			{"dr. s. wong's sulfur moisturising soap 80g", 1.18, "Dr. S. Wong's Sulfur Moisturising Soap 80g"},
			{"dr. s. wong's sulfur soap 80g", 1.10, "Dr. S. Wong's Sulfur Soap 80g"},
			{"renew placenta classic herbal beauty soap 135g", 2.50, "Renew Placenta Classic Herbal Beauty Soap 135g"},
			{"renew placenta white herbal beauty soap 135g", 2.50, "Renew Placenta White Herbal Beauty Soap 135g"},
			{"c. y. gabriel special pink soap 135g", 1.14, "C. Y. Gabriel Special Pink Soap 135g"},
			{"c. y. gabriel kojic soap 135g", 1.61, "C. Y. Gabriel Kojic Soap 135g"},
		},
		AssortedBrands:  []string{"flawlessly u", "flawlessly you"},
		AssortedDefault: 1.50,
		BoxPrices: []BoxPrice{
			{Subtype: "soap-green", BoxPrice: 111.560, Units: 72},
			{Subtype: "soap-kojic-glutathione", BoxPrice: 81.680, Units: 48},
			{Subtype: "soap-default", BoxPrice: 97.230, Units: 72},
			{Subtype: "lotion-pump", BoxPrice: 88.520, Units: 12},
		},
		ProductSets: []ProductSet{
			{
				Keywords: []string{"extract", "&", "set"},
				Members: []SetMember{
					{Keywords: []string{"soap", "125g"}, Name: "Extract Papaya Calamansi Soap 125g"},
					{Keywords: []string{"lotion", "200ml"}, Name: "Extract Papaya Calamansi Lotion 200ml"},
				},
			},
		},
		Bracket: BracketRule{
			Brand:   "c. y. gabriel",
			Variant: "kojic",
			Cost:    1.61,
			Name:    "C. Y. Gabriel Kojic Soap 135g",
		},
		VariantMarkers: []VariantMarker{
			{Tokens: []string{"green"}, Penalty: 0.4},
			{Tokens: []string{"pump"}, Penalty: 0.3, Brand: "flawlessly u", Type: "lotion"},
			{Tokens: []string{"moisturising", "moisturizing"}, Penalty: 0.3},
			{Tokens: []string{"white"}, Penalty: 0.5},
		},
		BulkCatalogue: []string{"box", "case", "×48", "x48", "×72", "x72", "×100", "x100"},
		BulkListing:   []string{"box", "case", "bulk", "wholesale"},
		Weights: Weights{
			BrandMatch:       0.2,
			BrandMismatch:    0.3,
			SizeMatch:        0.15,
			SizeMismatch:     0.2,
			PackMatch:        0.2,
			PackFreeMatch:    0.15,
			PackMismatch:     0.3,
			PackFlagMismatch: 0.4,
			BulkCatalogue:    0.5,
			BulkListing:      0.3,
			BundleCase:       0.8,
		},
	}
}

// LoadRules reads the rule tables from path and overlays them onto the
// defaults, so a partial file only replaces the sections it names. A missing
// file is not an error: the defaults stand alone.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return rules, fmt.Errorf("rules file %s: %w", path, err)
	}
	if err := v.Unmarshal(&rules); err != nil {
		return rules, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}
