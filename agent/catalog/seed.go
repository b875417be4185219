package catalog

import contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"

// SeedParts, SeedFits, SeedDocs and SeedInstallSteps are the bundled demo
// dataset. They back the memory source and seed an empty database.
func SeedParts() []contractx.Part {
	return []contractx.Part{
		{
			ID:            "p1",
			PsNumber:      "PS11752778",
			PartNumber:    "W10882923",
			Name:          "Refrigerator Ice Maker Assembly",
			ApplianceType: "refrigerator",
			Manufacturer:  "Whirlpool",
			Replaces:      []string{"W10300022", "W10377151"},
			Symptoms:      []string{"ice maker not working", "no ice production", "slow ice"},
			Price:         129.99,
			InStock:       true,
			ShippingEta:   "2-4 business days",
		},
		{
			ID:            "p2",
			PsNumber:      "PS11750057",
			PartNumber:    "W10620296",
			Name:          "Dishwasher Water Inlet Valve",
			ApplianceType: "dishwasher",
			Manufacturer:  "Whirlpool",
			Replaces:      []string{"W10212596"},
			Symptoms:      []string{"dishwasher not filling", "low water pressure"},
			Price:         43.49,
			InStock:       true,
			ShippingEta:   "2-3 business days",
		},
		{
			ID:            "p3",
			PsNumber:      "PS12584610",
			PartNumber:    "W11025157",
			Name:          "Dishwasher Pump and Motor Assembly",
			ApplianceType: "dishwasher",
			Manufacturer:  "Whirlpool",
			Replaces:      []string{"W10894668"},
			Symptoms:      []string{"not cleaning dishes", "strange motor noise", "not draining"},
			Price:         189.0,
			InStock:       false,
			ShippingEta:   "Backorder: 7-10 business days",
		},
		{
			ID:            "p4",
			PsNumber:      "PS11722128",
			PartNumber:    "W10278635",
			Name:          "Refrigerator Water Inlet Valve",
			ApplianceType: "refrigerator",
			Manufacturer:  "Whirlpool",
			Replaces:      []string{"W10159839"},
			Symptoms:      []string{"water dispenser not working", "ice maker no water", "low water flow"},
			Price:         57.29,
			InStock:       true,
			ShippingEta:   "2-4 business days",
		},
	}
}

func SeedFits() []contractx.FitRecord {
	return []contractx.FitRecord{
		{ModelNumber: "WDT780SAEM1", PsNumber: "PS11750057", FitConfidence: contractx.FitHigh, Notes: "Exact model match from compatibility matrix."},
		{ModelNumber: "WDT780SAEM1", PsNumber: "PS12584610", FitConfidence: contractx.FitMedium, Notes: "Fits most revisions. Verify serial prefix for exact revision."},
		{ModelNumber: "WRF535SWHZ", PsNumber: "PS11752778", FitConfidence: contractx.FitHigh, Notes: "Confirmed for this Whirlpool refrigerator family."},
		{ModelNumber: "WRF535SWHZ", PsNumber: "PS11722128", FitConfidence: contractx.FitHigh, Notes: "Confirmed fit for water supply system on this model."},
	}
}

func SeedDocs() []contractx.Doc {
	return []contractx.Doc{
		{
			ID:            "doc-ice-1",
			ApplianceType: "refrigerator",
			Brand:         "Whirlpool",
			PartNumber:    "PS11752778",
			DocType:       "installation",
			Title:         "Ice Maker Assembly Installation Guide",
			URL:           "https://www.partselect.com/ps11752778-installation-guide",
			Content:       "Disconnect power and water supply. Remove the ice bin and mounting screws. Disconnect harness, swap assembly, and re-secure. Restore power and run a harvest cycle test.",
			UpdatedAt:     "2025-09-10",
		},
		{
			ID:            "doc-dw-1",
			ApplianceType: "dishwasher",
			Brand:         "Whirlpool",
			PartNumber:    "PS11750057",
			DocType:       "installation",
			Title:         "Dishwasher Inlet Valve Replacement Steps",
			URL:           "https://www.partselect.com/ps11750057-installation-guide",
			Content:       "Turn off water and power. Remove kick plate. Disconnect inlet hose and wiring harness from valve. Install new valve and check for leaks before running a test cycle.",
			UpdatedAt:     "2025-07-19",
		},
		{
			ID:            "doc-troubleshoot-ice-1",
			ApplianceType: "refrigerator",
			Brand:         "Whirlpool",
			DocType:       "troubleshooting",
			Title:         "Whirlpool Refrigerator Ice Maker Not Working",
			URL:           "https://www.partselect.com/blog/whirlpool-ice-maker-troubleshooting",
			Content:       "Start with water line and filter checks. Then inspect inlet valve, ice maker assembly, and optical sensor. Confirm freezer temperature is between 0F and 5F.",
			UpdatedAt:     "2025-11-01",
		},
		{
			ID:            "doc-dw-2",
			ApplianceType: "dishwasher",
			Brand:         "Whirlpool",
			PartNumber:    "PS12584610",
			DocType:       "installation",
			Title:         "Dishwasher Pump and Motor Assembly Replacement",
			URL:           "https://www.partselect.com/ps12584610-installation-guide",
			Content:       "Disconnect power and water. Remove lower spray arm and filter housing. Access sump area, disconnect motor harness and hoses, replace assembly, then run leak and wash tests.",
			UpdatedAt:     "2025-08-14",
		},
		{
			ID:            "doc-troubleshoot-dw-1",
			ApplianceType: "dishwasher",
			Brand:         "Whirlpool",
			DocType:       "troubleshooting",
			Title:         "Dishwasher Not Cleaning or Not Draining",
			URL:           "https://www.partselect.com/blog/dishwasher-not-draining-troubleshooting",
			Content:       "Check filter blockage, drain loop, and pump impeller first. If motor noise persists, inspect pump and motor assembly and verify inlet water volume.",
			UpdatedAt:     "2025-10-02",
		},
		{
			ID:            "doc-ice-2",
			ApplianceType: "refrigerator",
			Brand:         "Whirlpool",
			PartNumber:    "PS11722128",
			DocType:       "installation",
			Title:         "Refrigerator Water Inlet Valve Replacement",
			URL:           "https://www.partselect.com/ps11722128-installation-guide",
			Content:       "Unplug unit and shut off water. Pull refrigerator forward, remove rear panel, disconnect supply lines and harness from valve, replace valve, and test for leaks.",
			UpdatedAt:     "2025-06-28",
		},
	}
}

func SeedInstallSteps() map[string][]string {
	return map[string][]string{
		"PS11752778": {
			"Unplug refrigerator and shut off water supply.",
			"Remove ice bin and mounting hardware from the ice maker housing.",
			"Disconnect wire harness and release the old ice maker assembly.",
			"Install new assembly, reconnect harness, and secure all screws.",
			"Restore power/water and run a test harvest cycle.",
		},
		"PS11750057": {
			"Disconnect dishwasher power and water supply.",
			"Remove lower kick plate to access inlet valve.",
			"Disconnect inlet hose and wire terminals from old valve.",
			"Install new valve, reconnect wiring/hose, and tighten fittings.",
			"Restore utilities and run a short cycle to check leaks.",
		},
		"PS12584610": {
			"Disconnect dishwasher power and water supply.",
			"Remove lower rack, spray arm, and filter assembly to access the sump.",
			"Disconnect motor wiring harness and attached hoses from the old pump assembly.",
			"Install the new pump and motor assembly and resecure all clamps and connectors.",
			"Restore utilities and run a short wash/drain cycle to verify operation and leaks.",
		},
		"PS11722128": {
			"Unplug refrigerator and shut off water supply.",
			"Pull the unit out and remove the lower rear service panel.",
			"Disconnect inlet/outlet water lines and wire harness from the old valve.",
			"Install new valve, reconnect all lines and wiring, and secure the panel.",
			"Turn water back on, restore power, and check for leaks and dispenser flow.",
		},
	}
}
