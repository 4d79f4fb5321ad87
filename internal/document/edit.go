package document

import (
	"fmt"

	"github.com/thirteen37/yamlforge/internal/path"
	"github.com/thirteen37/yamlforge/internal/value"
)

// locate resolves p to an option and the member path inside its value.
//
// ["name"] selects a root option and ["Game A", "accessibility"] a section
// option. Remaining segments address members of the option's value.
func (p *ParsedTemplate) locate(sel path.Path) (*Option, []string, error) {
	segs := sel.Segments()
	if len(segs) == 0 {
		return nil, nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if IsRootKey(segs[0]) {
		opt := p.RootOption(segs[0])
		if opt == nil {
			return nil, nil, fmt.Errorf("%w: root option %q is not in the document", ErrUnknownOption, segs[0])
		}
		return opt, segs[1:], nil
	}

	if len(segs) < 2 {
		return nil, nil, fmt.Errorf("%w: %s names a section, not an option", ErrInvalidPath, sel)
	}
	section := p.Section(segs[0])
	if section == nil {
		return nil, nil, fmt.Errorf("%w: no section %q", ErrUnknownOption, segs[0])
	}
	opt := section.Option(segs[1])
	if opt == nil {
		return nil, nil, fmt.Errorf("%w: section %q has no option %q", ErrUnknownOption, segs[0], segs[1])
	}
	return opt, segs[2:], nil
}

// Option returns the option addressed by sel. Member paths are rejected.
func (p *ParsedTemplate) Option(sel path.Path) (*Option, error) {
	opt, member, err := p.locate(sel)
	if err != nil {
		return nil, err
	}
	if len(member) > 0 {
		return nil, fmt.Errorf("%w: %s addresses a member, not an option", ErrInvalidPath, sel)
	}
	return opt, nil
}

// Get returns the value addressed by sel.
func (p *ParsedTemplate) Get(sel path.Path) (value.Value, error) {
	opt, member, err := p.locate(sel)
	if err != nil {
		return nil, err
	}
	v, err := value.GetIn(opt.Value, member)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sel, err)
	}
	return v, nil
}

// Set replaces the value addressed by sel. Options must already exist;
// members inside a mapping value are created as needed.
func (p *ParsedTemplate) Set(sel path.Path, v value.Value) error {
	opt, member, err := p.locate(sel)
	if err != nil {
		return err
	}
	updated, err := value.SetIn(opt.Value, member, v)
	if err != nil {
		return fmt.Errorf("%s: %w", sel, err)
	}
	opt.Value = updated
	return nil
}

// Unset removes the member addressed by sel from its option's value.
// Options themselves cannot be removed.
func (p *ParsedTemplate) Unset(sel path.Path) error {
	opt, member, err := p.locate(sel)
	if err != nil {
		return err
	}
	if len(member) == 0 {
		return fmt.Errorf("%w: %s is an option; only members inside a value can be removed", ErrInvalidPath, sel)
	}
	updated, err := value.DeleteIn(opt.Value, member)
	if err != nil {
		return fmt.Errorf("%s: %w", sel, err)
	}
	opt.Value = updated
	return nil
}
