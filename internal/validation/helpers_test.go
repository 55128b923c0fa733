// internal/validation/helpers_test.go
package validation

import (
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return testNow.AddDate(0, 0, d)
}

func testScope() UsageScope {
	return UsageScope{
		MediaTypes:  []string{"digital"},
		Placements:  []string{"social_media"},
		Territories: []Territory{"US"},
	}
}

func testCandidate() *LicenseCandidate {
	return &LicenseCandidate{
		AssetID:  uuid.New(),
		BrandID:  uuid.New(),
		Kind:     KindNonExclusive,
		StartsAt: day(10),
		EndsAt:   day(40),
		FeeCents: 0,
		Scope:    testScope(),
	}
}

func testOwner(name string, shareBps int, kind OwnershipKind) OwnershipRecord {
	return OwnershipRecord{
		CreatorID:         uuid.New(),
		CreatorName:       name,
		ShareBps:          shareBps,
		Kind:              kind,
		ContractReference: "CTR-100",
		CreatorActive:     true,
	}
}

func testAsset() *AssetSnapshot {
	return &AssetSnapshot{
		ID:     uuid.New(),
		Status: AssetStatusPublished,
		Ownerships: []OwnershipRecord{
			testOwner("Ana Reyes", 6000, OwnershipPrimary),
			testOwner("Leo Tanaka", 4000, OwnershipSecondary),
		},
	}
}

func testBrand() *BrandSnapshot {
	return &BrandSnapshot{
		ID:       uuid.New(),
		Name:     "Northwind Apparel",
		Verified: true,
	}
}

func testContext(existing ...ExistingLicense) *Context {
	return &Context{
		Now:      testNow,
		Existing: existing,
		Asset:    testAsset(),
		Brand:    testBrand(),
	}
}

func existing(brandName string, kind LicenseKind, startDay, endDay int) ExistingLicense {
	return ExistingLicense{
		ID:        uuid.New(),
		BrandID:   uuid.New(),
		BrandName: brandName,
		Kind:      kind,
		StartsAt:  day(startDay),
		EndsAt:    day(endDay),
		Scope:     testScope(),
	}
}
