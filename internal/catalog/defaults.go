package catalog

// Reservation categories used by JoSAA counselling.
var josaaSeatTypes = []string{
	"OPEN", "OPEN (PwD)",
	"EWS", "EWS (PwD)",
	"OBC-NCL", "OBC-NCL (PwD)",
	"SC", "SC (PwD)",
	"ST", "ST (PwD)",
}

var neetSeatTypes = []string{"Open", "EWS", "OBC", "SC", "ST", "Open-PwD", "OBC-PwD", "SC-PwD", "ST-PwD", "EWS-PwD"}

var cuetSeatTypes = []string{"General", "EWS", "OBC-NCL", "SC", "ST"}

var gateSeatTypes = []string{"GEN", "GEN-EWS", "OBC-NCL", "SC", "ST", "GEN-PwD"}

// DefaultSubCategories is the shared gender pool set.
var DefaultSubCategories = []string{"Gender-Neutral", "Female-only (including Supernumerary)"}

var indianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa", "Gujarat",
	"Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh",
	"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh",
	"Uttarakhand", "West Bengal", "Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu", "Delhi", "Jammu and Kashmir", "Ladakh",
	"Lakshadweep", "Puducherry",
}

// DefaultDefinition returns the built-in tables. Each call returns fresh
// maps so callers can overlay them freely.
func DefaultDefinition() Definition {
	return Definition{
		DefaultYears:  []string{"2025", "2024", "2023"},
		SubCategories: cloneStrings(DefaultSubCategories),
		States:        cloneStrings(indianStates),
		ExamOrder:     []string{ExamJEEMain, ExamJEEAdvanced, ExamNEETUG, ExamCUETUG, ExamGATE, ExamBITSAT},
		Exams: map[string]ExamDefinition{
			ExamJEEMain: {
				DisplayName:         "JEE Main",
				RequiresSubCategory: true,
				SeatTypeOptions:     cloneStrings(josaaSeatTypes),
				QuotaOptions:        []string{"AI", "HS", "OS", "GO", "JK", "LA", "Delhi Region", "Outside Delhi Region"},
			},
			ExamJEEAdvanced: {
				DisplayName:         "JEE Advanced",
				RequiresSubCategory: true,
				SeatTypeOptions:     cloneStrings(josaaSeatTypes),
				QuotaOptions:        []string{"AI"},
			},
			ExamNEETUG: {
				DisplayName:     "NEET UG",
				SeatTypeOptions: cloneStrings(neetSeatTypes),
				QuotaOptions:    []string{"All India", "State Quota", "Deemed/Paid Seats Quota"},
			},
			ExamCUETUG: {
				DisplayName:     "CUET UG",
				SeatTypeOptions: cloneStrings(cuetSeatTypes),
			},
			ExamGATE: {
				DisplayName:     "GATE",
				SeatTypeOptions: cloneStrings(gateSeatTypes),
			},
			ExamBITSAT: {
				DisplayName:     "BITSAT",
				SeatTypeOptions: []string{"General"},
			},
		},
		Tags: map[string]TagConfig{
			"IIT": {
				DefaultQuota:          "AI",
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEAdvanced: {
						RequiresSubCategory: true,
						RequiresQuota:       true,
						SeatTypeOptions:     cloneStrings(josaaSeatTypes),
						QuotaOptions:        []string{"AI"},
					},
					ExamGATE: {
						SeatTypeOptions: cloneStrings(gateSeatTypes),
					},
				},
			},
			"NIT": {
				DefaultQuota:          "OS",
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						RequiresSubCategory: true,
						RequiresQuota:       true,
						SeatTypeOptions:     cloneStrings(josaaSeatTypes),
						QuotaOptions:        []string{"HS", "OS", "GO", "JK", "LA"},
					},
					ExamGATE: {
						SeatTypeOptions: cloneStrings(gateSeatTypes),
					},
				},
			},
			"IIIT": {
				DefaultQuota:          "AI",
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						RequiresSubCategory: true,
						SeatTypeOptions:     cloneStrings(josaaSeatTypes),
						QuotaOptions:        []string{"AI"},
					},
				},
			},
			"GFTI": {
				DefaultQuota:          "AI",
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						RequiresSubCategory: true,
						RequiresQuota:       true,
						SeatTypeOptions:     cloneStrings(josaaSeatTypes),
						QuotaOptions:        []string{"AI", "HS", "OS"},
					},
				},
			},
			"AIIMS": {
				DefaultQuota:          "All India",
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamNEETUG: {
						RequiresQuota:   true,
						SeatTypeOptions: cloneStrings(neetSeatTypes),
						QuotaOptions:    []string{"All India"},
					},
				},
			},
			"Medical": {
				DefaultQuota: "All India",
				ExamConfigs: map[string]ExamDefinition{
					ExamNEETUG: {
						RequiresQuota:   true,
						SeatTypeOptions: cloneStrings(neetSeatTypes),
						QuotaOptions:    []string{"All India", "State Quota", "Deemed/Paid Seats Quota"},
					},
				},
			},
			"University": {
				IsGovernmentInstitute: true,
				ExamConfigs: map[string]ExamDefinition{
					ExamCUETUG: {
						SeatTypeOptions: cloneStrings(cuetSeatTypes),
					},
				},
			},
			"Private": {
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						SeatTypeOptions: []string{"OPEN"},
					},
					ExamCUETUG: {
						SeatTypeOptions: []string{"General"},
					},
				},
			},
		},
		Colleges: map[string]CollegeConfig{
			"iiit-hyderabad": {
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						SeatTypeOptions: []string{"OPEN"},
						Years:           []string{"2025", "2024"},
					},
				},
			},
			"bits-pilani": {
				FallbackTag: "Private",
				ExamConfigs: map[string]ExamDefinition{
					ExamBITSAT: {
						SeatTypeOptions: []string{"General"},
					},
				},
			},
			"vit-vellore":     {FallbackTag: "Private"},
			"mnnit-allahabad": {FallbackTag: "NIT"},
			"pec-chandigarh":  {FallbackTag: "GFTI"},
		},
		Groups: []SharedGroup{
			{
				Name:         "colleges",
				CollegeSlugs: []string{"dtu-delhi", "nsut-delhi", "igdtuw-delhi", "iiit-delhi"},
				ExamConfigs: map[string]ExamDefinition{
					ExamJEEMain: {
						RequiresSubCategory: true,
						RequiresQuota:       true,
						SeatTypeOptions:     cloneStrings(josaaSeatTypes),
						QuotaOptions:        []string{"Delhi Region", "Outside Delhi Region"},
						Years:               []string{"2025", "2024"},
					},
				},
			},
		},
	}
}

// Default builds the catalog from the built-in tables.
func Default() *Catalog {
	return MustNew(DefaultDefinition())
}
