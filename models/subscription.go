package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const Week = 7 * 24 * time.Hour

// CheckInQuota is a weekly visit allowance: a number, or "unlimited".
type CheckInQuota struct {
	Limit     int  `bson:"limit"`
	Unlimited bool `bson:"unlimited"`
}

func (q CheckInQuota) MarshalJSON() ([]byte, error) {
	if q.Unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(q.Limit)), nil
}

func (q *CheckInQuota) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("weeklyCheckIns: unexpected value %q", s)
		}
		*q = CheckInQuota{Unlimited: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("weeklyCheckIns: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("weeklyCheckIns: negative limit %d", n)
	}
	*q = CheckInQuota{Limit: n}
	return nil
}

// ClientSubscription is an admin-assigned membership. CheckIns[i] counts the
// visits made in the i-th week since StartDate.
type ClientSubscription struct {
	ID                    string       `bson:"id" json:"id"`
	SubscriberID          string       `bson:"subscriberId" json:"subscriberId"`
	SubscriptionPackageID string       `bson:"subscriptionPackageId" json:"subscriptionPackageId"`
	StartDate             time.Time    `bson:"startDate" json:"startDate"`
	EndDate               time.Time    `bson:"endDate" json:"endDate"`
	Active                bool         `bson:"active" json:"active"`
	WeeklyCheckIns        CheckInQuota `bson:"weeklyCheckIns" json:"weeklyCheckIns"`
	CheckIns              []int        `bson:"checkInsArray" json:"checkInsArray"`
	Version               int          `bson:"version" json:"-"`
	ExpiryNotified        bool         `bson:"expiryNotified" json:"-"`
	CreatedAt             time.Time    `bson:"createdAt" json:"createdAt"`
}

// WeekIndex is floor((at - StartDate) / 7 days). Visits before the start are negative.
func (s ClientSubscription) WeekIndex(at time.Time) int {
	d := at.Sub(s.StartDate)
	idx := int(d / Week)
	if d < 0 && d%Week != 0 {
		idx--
	}
	return idx
}

// CheckInsInWeek returns the recorded visits for week idx, zero when untracked.
func (s ClientSubscription) CheckInsInWeek(idx int) int {
	if idx < 0 || idx >= len(s.CheckIns) {
		return 0
	}
	return s.CheckIns[idx]
}

// QuotaUsage summarises the current week for the member's app.
type QuotaUsage struct {
	WeekIndex int          `json:"weekIndex"`
	Used      int          `json:"used"`
	Quota     CheckInQuota `json:"quota"`
	Exceeded  bool         `json:"exceeded"`
}

func (s ClientSubscription) Usage(now time.Time) QuotaUsage {
	idx := s.WeekIndex(now)
	used := s.CheckInsInWeek(idx)
	return QuotaUsage{
		WeekIndex: idx,
		Used:      used,
		Quota:     s.WeeklyCheckIns,
		Exceeded:  !s.WeeklyCheckIns.Unlimited && used > s.WeeklyCheckIns.Limit,
	}
}
