package domain

// ClientType distinguishes the two kinds of accounts that can register.
type ClientType string

const (
	ClientTypeClient ClientType = "client"
	ClientTypeTalent ClientType = "talent"
)

func (c ClientType) Valid() bool {
	return c == ClientTypeClient || c == ClientTypeTalent
}

// Organization is an organizational affinity tag.
type Organization string

const (
	OrgWomenLed          Organization = "Women-Led"
	OrgArtificialIntel   Organization = "Artificial Intelligence"
	OrgStartups          Organization = "Startups"
	OrgDisruptors        Organization = "Disruptors"
	OrgSustainable       Organization = "Sustainable"
	OrgBCorpCertified    Organization = "B Corp Certified"
	OrgTechUnicorns      Organization = "Tech Unicorns"
	OrgSocialImpact      Organization = "Social Impact"
	OrgDirectToConsumer  Organization = "Direct-to-Consumer"
	OrgFinTech           Organization = "FinTech"
	OrgLifestyle         Organization = "Lifestyle"
	OrgSubscriptionBased Organization = "Subscription-Based"
	OrgHighGrowth        Organization = "High Growth"
	OrgTransformation    Organization = "Transformation"
	OrgLargeEnterprise   Organization = "Large Enterprise"
)

var organizations = map[Organization]struct{}{
	OrgWomenLed: {}, OrgArtificialIntel: {}, OrgStartups: {}, OrgDisruptors: {},
	OrgSustainable: {}, OrgBCorpCertified: {}, OrgTechUnicorns: {}, OrgSocialImpact: {},
	OrgDirectToConsumer: {}, OrgFinTech: {}, OrgLifestyle: {}, OrgSubscriptionBased: {},
	OrgHighGrowth: {}, OrgTransformation: {}, OrgLargeEnterprise: {},
}

func (o Organization) Valid() bool {
	_, ok := organizations[o]
	return ok
}

// Category is a content preference category.
type Category string

const (
	CategoryStrategy   Category = "Strategy"
	CategoryGrowth     Category = "Growth"
	CategoryFinance    Category = "Finance"
	CategoryTechnology Category = "Technology"
	CategoryNonProfits Category = "Non-Profits"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStrategy, CategoryGrowth, CategoryFinance, CategoryTechnology, CategoryNonProfits:
		return true
	}
	return false
}

// ReferralSource records how the user heard about the service.
type ReferralSource string

const (
	ReferralFriend         ReferralSource = "Friend or colleague"
	ReferralNewsletter     ReferralSource = "Newsletter"
	ReferralGoogleSearch   ReferralSource = "Google Search"
	ReferralCareerServices ReferralSource = "Career Services Office"
	ReferralProfessor      ReferralSource = "Professor or Academic Advisor"
	ReferralLinkedIn       ReferralSource = "LinkedIn"
	ReferralOther          ReferralSource = "Other"
)

func (r ReferralSource) Valid() bool {
	switch r {
	case ReferralFriend, ReferralNewsletter, ReferralGoogleSearch, ReferralCareerServices,
		ReferralProfessor, ReferralLinkedIn, ReferralOther:
		return true
	}
	return false
}

// dedupe drops repeated tags, keeping first-seen order.
func dedupe[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
