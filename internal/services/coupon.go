package services

import (
	"time"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

const couponDateLayout = "2006-01-02"

// AnnotateCoupon sets Coupon, CouponUntil and CouponExpiry on result. Expiry
// compares calendar dates in loc, so a coupon is still valid on its last day.
// A nil coupon clears all three fields.
func AnnotateCoupon(result *models.SuggestionResult, coupon *models.Coupon, now time.Time, loc *time.Location) {
	result.Coupon, result.CouponUntil, result.CouponExpiry = nil, nil, nil
	if coupon == nil || coupon.Code == "" {
		return
	}
	if loc == nil {
		loc = time.UTC
	}
	code := coupon.Code
	until := coupon.ExpiresOn.Format(couponDateLayout)
	result.Coupon = &code
	result.CouponUntil = &until
	if until < now.In(loc).Format(couponDateLayout) {
		status := models.CouponExpired
		result.CouponExpiry = &status
	}
}

// CouponAnnotator binds AnnotateCoupon to a location and clock.
type CouponAnnotator struct {
	loc *time.Location
	now func() time.Time
}

func NewCouponAnnotator(loc *time.Location) *CouponAnnotator {
	if loc == nil {
		loc = time.UTC
	}
	return &CouponAnnotator{loc: loc, now: time.Now}
}

func (a *CouponAnnotator) Annotate(result *models.SuggestionResult, coupon *models.Coupon) {
	AnnotateCoupon(result, coupon, a.now(), a.loc)
}
