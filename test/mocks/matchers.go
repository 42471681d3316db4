// test/mocks/matchers.go
package mocks

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type decimalMatcher struct {
	want decimal.Decimal
}

// DecimalEq matches a decimal.Decimal argument by numeric value, so 15 and
// 15.00 are equal.
func DecimalEq(want string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(want)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is decimal %s", m.want.String())
}
