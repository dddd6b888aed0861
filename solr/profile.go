package solr

import (
	"github.com/querybridge/querybridge/pkg/querybridge/backend"
	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

// Profile carries the supported-operator set for one engine capability
// variant. Differences between Solr versions are expressed as data here,
// not as branches in the compiler.
type Profile struct {
	Name      string
	Operators backend.OperatorSet
}

// StandardProfile supports the full canonical operator set.
func StandardProfile() Profile {
	return Profile{Name: "standard", Operators: backend.AllOperators()}
}

// LegacyProfile mirrors older engine deployments without the exclusive
// comparison operators.
func LegacyProfile() Profile {
	return Profile{Name: "legacy", Operators: backend.Operators(
		query.Equal, query.NotEqual,
		query.LessOrEqual, query.GreaterOrEqual,
		query.Range,
	)}
}

// ProfileByName resolves a configured profile name. Empty selects the
// standard profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", "standard":
		return StandardProfile(), nil
	case "legacy":
		return LegacyProfile(), nil
	}
	return Profile{}, qberrors.NewError(qberrors.ErrConfig, "unknown operator profile "+name)
}
