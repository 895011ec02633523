package scenario

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/battlesim/internal/data"
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/model"
)

// Setup is a scenario resolved against the data tables, ready to run.
type Setup struct {
	Name     string
	Digest   string
	Units    []model.Unit
	Handlers []battle.Handler
	Options  battle.Options
}

// NewBattle creates the initial battle state and registers every rule.
func (s Setup) NewBattle() battle.State {
	st := battle.New(s.Units, s.Options, rules.Hooks())
	for _, h := range s.Handlers {
		st = st.Register(h)
	}
	return st
}

// Validate checks the scenario against the tables without building it.
func (c Config) Validate(t data.Tables) error {
	if len(c.Party) == 0 {
		return ErrEmptyParty
	}
	if len(c.Party) > MaxPartySize {
		return ErrPartyTooLarge
	}
	if len(c.Enemies) == 0 {
		return ErrNoEnemies
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRounds, c.Rounds)
	}
	if c.InitialEnergy != nil && (*c.InitialEnergy < 0 || *c.InitialEnergy > 1) {
		return fmt.Errorf("%w: %v", ErrInvalidInitialRatio, *c.InitialEnergy)
	}

	seen := make(map[string]struct{}, len(c.Party))
	for i, m := range c.Party {
		if err := m.validate(t); err != nil {
			return fmt.Errorf("party slot %d: %w", i+1, err)
		}
		if _, dup := seen[m.Character]; dup {
			return fmt.Errorf("party slot %d: %w: %s", i+1, ErrDuplicateMember, m.Character)
		}
		seen[m.Character] = struct{}{}
	}
	for i, e := range c.Enemies {
		en, ok := t.Enemies[e.Enemy]
		if !ok {
			return fmt.Errorf("enemy slot %d: %w: %s", i+1, ErrUnknownEnemy, e.Enemy)
		}
		if _, err := ParseRotation(en.Rotation); err != nil {
			return fmt.Errorf("enemy slot %d: %w", i+1, err)
		}
	}
	return nil
}

func (m Member) validate(t data.Tables) error {
	ch, ok := t.Characters[m.Character]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, m.Character)
	}
	if m.Eidolon < 0 || m.Eidolon > maxEidolon {
		return fmt.Errorf("%w: %d", ErrInvalidEidolon, m.Eidolon)
	}
	if m.LightCone != nil {
		if _, ok := t.LightCones[m.LightCone.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLightCone, m.LightCone.ID)
		}
		if r := m.LightCone.Rank(); r < 1 || r > data.MaxSuperimposition {
			return fmt.Errorf("%w: %d", ErrInvalidRank, r)
		}
	}
	if len(m.Relics) > maxRelics {
		return ErrTooManyRelics
	}
	for _, r := range m.Relics {
		if _, ok := t.RelicSets[r.Set]; !ok && r.Set != "" {
			return fmt.Errorf("%w: %s", ErrUnknownRelicSet, r.Set)
		}
	}
	if _, err := ParseRotation(m.rotation(ch)); err != nil {
		return err
	}
	switch st := m.ultStrategy(ch); st {
	case model.UltImmediate, model.UltCooldown:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidUltStrategy, st)
	}
	return nil
}

func (m Member) rotation(ch data.Character) string {
	if m.Rotation != "" {
		return m.Rotation
	}
	return ch.Rotation
}

func (m Member) ultStrategy(ch data.Character) model.UltStrategy {
	if m.UltStrategy != "" {
		return m.UltStrategy
	}
	if ch.UltStrategy != "" {
		return ch.UltStrategy
	}
	return model.DefaultUltStrategy
}

// Build validates the scenario and resolves it into a Setup. Rules are
// bound through cat.
func (c Config) Build(t data.Tables, cat rules.Catalog) (Setup, error) {
	if err := c.Validate(t); err != nil {
		return Setup{}, err
	}

	setup := Setup{Name: c.Name, Digest: c.Digest()}
	for _, m := range c.Party {
		u, refs := m.unit(t)
		hs, err := bind(cat, u.ID, refs)
		if err != nil {
			return Setup{}, err
		}
		setup.Units = append(setup.Units, u)
		setup.Handlers = append(setup.Handlers, hs...)
	}
	for i, slot := range c.Enemies {
		u, refs := c.enemy(t, i, slot)
		hs, err := bind(cat, u.ID, refs)
		if err != nil {
			return Setup{}, err
		}
		setup.Units = append(setup.Units, u)
		setup.Handlers = append(setup.Handlers, hs...)
	}

	opts := battle.DefaultOptions()
	opts.Rounds = c.Rounds
	if c.MaxTurns > 0 {
		opts.MaxTurns = c.MaxTurns
	}
	if c.InitialEnergy != nil {
		opts.InitialEnergy = *c.InitialEnergy
	}
	opts.Seed = c.EffectiveSeed()
	setup.Options = opts

	slog.Debug("scenario built",
		"name", c.Name,
		"digest", setup.Digest,
		"units", len(setup.Units),
		"rules", len(setup.Handlers))
	return setup, nil
}

func bind(cat rules.Catalog, owner model.UnitID, refs []rules.Ref) ([]battle.Handler, error) {
	out := make([]battle.Handler, 0, len(refs))
	for _, ref := range refs {
		h, err := cat.Build(owner, ref)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", owner, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// unit assembles a character with its gear. Validate must have passed.
func (m Member) unit(t data.Tables) (model.Unit, []rules.Ref) {
	ch := t.Characters[m.Character]
	rotation, _ := ParseRotation(m.rotation(ch))

	u := model.Unit{
		ID:          model.UnitID(ch.ID),
		Name:        ch.Name,
		Element:     ch.Element,
		Path:        ch.Path,
		Level:       ch.Level,
		Eidolon:     m.Eidolon,
		Base:        ch.Base.Clone(),
		Abilities:   ch.Abilities,
		Rotation:    rotation,
		UltStrategy: m.ultStrategy(ch),
		UltCooldown: ch.UltCooldown,
	}
	if m.Level > 0 {
		u.Level = m.Level
	}
	if m.UltCooldown > 0 {
		u.UltCooldown = m.UltCooldown
	}
	if u.Base == nil {
		u.Base = model.Stats{}
	}

	u.Modifiers = append(u.Modifiers, tagged(ch.Traces, "trace:"+ch.ID)...)
	refs := append([]rules.Ref(nil), ch.Rules...)
	for _, e := range ch.Eidolons {
		if e.Level <= m.Eidolon {
			u.Modifiers = append(u.Modifiers, tagged(e.Modifiers, fmt.Sprintf("eidolon:%s:%d", ch.ID, e.Level))...)
			refs = append(refs, e.Rules...)
		}
	}

	if m.LightCone != nil {
		lc := t.LightCones[m.LightCone.ID]
		rank := m.LightCone.Rank()
		for k, v := range lc.Base {
			u.Base[k] += v
		}
		for _, p := range lc.Passive {
			mod := p.At(rank)
			mod.Source = "lc:" + lc.ID
			u.Modifiers = append(u.Modifiers, mod)
		}
		if lc.Rule != nil {
			refs = append(refs, lc.Rule.At(rank))
		}
	}

	counts := make(map[string]int)
	var order []string
	for i, r := range m.Relics {
		src := fmt.Sprintf("relic:%d", i+1)
		main := r.Main
		if main.Stat != "" {
			main.Source = src
			u.Modifiers = append(u.Modifiers, main)
		}
		u.Modifiers = append(u.Modifiers, tagged(r.Subs, src)...)
		if r.Set == "" {
			continue
		}
		if counts[r.Set] == 0 {
			order = append(order, r.Set)
		}
		counts[r.Set]++
	}
	for _, id := range order {
		set := t.RelicSets[id]
		for _, b := range set.Bonuses {
			if counts[id] < b.Pieces {
				continue
			}
			src := fmt.Sprintf("set:%s:%d", id, b.Pieces)
			u.Modifiers = append(u.Modifiers, tagged(b.Modifiers, src)...)
			u.Conditional = append(u.Conditional, b.Conditional...)
			refs = append(refs, b.Rules...)
		}
	}

	refs = append(refs, m.Rules...)
	return u, refs
}

// enemy assembles enemy slot i. Ids are "<enemy>#<slot>".
func (c Config) enemy(t data.Tables, i int, slot EnemySlot) (model.Unit, []rules.Ref) {
	en := t.Enemies[slot.Enemy]
	rotation, _ := ParseRotation(en.Rotation)

	u := model.Unit{
		ID:           model.UnitID(fmt.Sprintf("%s#%d", en.ID, i+1)),
		Name:         en.Name,
		IsEnemy:      true,
		Element:      en.Element,
		Level:        en.Level,
		Base:         en.Base.Clone(),
		MaxToughness: en.MaxToughness,
		Weaknesses:   en.Weaknesses,
		Abilities:    en.Abilities,
		Rotation:     rotation,
	}
	if u.Base == nil {
		u.Base = model.Stats{}
	}
	if slot.Level > 0 {
		u.Level = slot.Level
	}
	if slot.HP > 0 {
		u.Base[model.StatHP] = slot.HP
	}
	if slot.SPD > 0 {
		u.Base[model.StatSPD] = slot.SPD
	}
	if slot.Toughness > 0 {
		u.MaxToughness = slot.Toughness
	}
	if c.Weaknesses != 0 {
		u.Weaknesses = c.Weaknesses
	}
	return u, en.Rules
}

func tagged(mods []model.Modifier, source string) []model.Modifier {
	out := make([]model.Modifier, len(mods))
	for i, m := range mods {
		if m.Source == "" {
			m.Source = source
		}
		out[i] = m
	}
	return out
}
