package provider

import (
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/l3uddz/iconkit/harvest"
	"github.com/pkg/errors"
)

// IconEnv is the environment ignore expressions are evaluated against.
type IconEnv struct {
	Name      string
	Path      string
	SourceURL string
	Version   string
}

// Filter drops icons matching any configured ignore expression.
type Filter struct {
	ignores []*vm.Program
}

func NewFilter(ignores []string) (*Filter, error) {
	f := &Filter{}

	// compile ignores
	for _, ignoreExpr := range ignores {
		program, err := expr.Compile(ignoreExpr, expr.Env(IconEnv{}), expr.AsBool())
		if err != nil {
			return nil, errors.Wrapf(err, "failed compiling ignore expression for: %q", ignoreExpr)
		}

		f.ignores = append(f.ignores, program)
	}

	return f, nil
}

func (f *Filter) ShouldIgnore(icon harvest.ScrapedIcon) (bool, error) {
	env := IconEnv{
		Name:      icon.Name,
		Path:      icon.Path,
		SourceURL: icon.SourceURL,
		Version:   icon.Version,
	}

	for _, program := range f.ignores {
		result, err := expr.Run(program, env)
		if err != nil {
			return true, errors.Wrap(err, "failed checking ignore expression")
		}

		ignore, ok := result.(bool)
		if !ok {
			return true, errors.New("failed type asserting ignore expression result")
		}

		if ignore {
			return true, nil
		}
	}

	return false, nil
}

// Apply returns the icons no ignore expression matched.
func (f *Filter) Apply(icons []harvest.ScrapedIcon) ([]harvest.ScrapedIcon, error) {
	if len(f.ignores) == 0 {
		return icons, nil
	}

	kept := make([]harvest.ScrapedIcon, 0, len(icons))
	for _, icon := range icons {
		ignore, err := f.ShouldIgnore(icon)
		if err != nil {
			return nil, errors.WithMessagef(err, "icon %q", icon.Name)
		}
		if !ignore {
			kept = append(kept, icon)
		}
	}

	return kept, nil
}
