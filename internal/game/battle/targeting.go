package battle

import "github.com/udisondev/battlesim/internal/model"

// DefaultTarget picks the main target of an ability for source when none
// was requested: the first living enemy for offensive abilities (weighted by
// aggro when an enemy acts), the most injured ally for heals, and the
// source itself otherwise.
func (s State) DefaultTarget(source model.UnitID, a *model.Ability) (State, model.UnitID) {
	src, ok := s.units.Get(source)
	if !ok || a == nil {
		return s, ""
	}
	switch a.Target {
	case model.TargetSelf:
		return s, source
	case model.TargetAlly, model.TargetAllAllies:
		allies := s.units.AliveSide(src.IsEnemy)
		if a.Heal == nil || len(allies) == 0 {
			return s, source
		}
		best := allies[0]
		for _, u := range allies[1:] {
			if hpRatio(&u) < hpRatio(&best) {
				best = u
			}
		}
		return s, best.ID
	}

	foes := s.targetable(!src.IsEnemy)
	if len(foes) == 0 {
		return s, ""
	}
	if !src.IsEnemy {
		return s, foes[0].ID
	}
	weights := make([]float64, len(foes))
	for i := range foes {
		weights[i] = aggro(&foes[i])
	}
	i := s.rng.Weighted(weights)
	return s, foes[i].ID
}

// resolveTargets expands the main target into the unit list of one hit
// pass: every enemy for all_enemies, main plus adjacent for blast, every
// ally for all_allies. Bounce picks per hit in the dispatcher.
func (s State) resolveTargets(source, main model.UnitID, a *model.Ability) []model.UnitID {
	src, ok := s.units.Get(source)
	if !ok {
		return nil
	}
	switch a.Target {
	case model.TargetSelf:
		return []model.UnitID{source}
	case model.TargetAllEnemies:
		return ids(s.targetable(!src.IsEnemy))
	case model.TargetAllAllies:
		return ids(s.units.AliveSide(src.IsEnemy))
	}
	if main == "" {
		return nil
	}
	if u, ok := s.units.Get(main); !ok || !u.Alive() {
		return nil
	}
	return []model.UnitID{main}
}

// targetable returns living, targetable units on the given side.
func (s State) targetable(enemy bool) []model.Unit {
	var out []model.Unit
	for _, u := range s.units.AliveSide(enemy) {
		if !u.Untargetable {
			out = append(out, u)
		}
	}
	return out
}

func aggro(u *model.Unit) float64 {
	if v := u.Stats.Get(model.StatAggro); v > 0 {
		return v
	}
	return 100
}

func hpRatio(u *model.Unit) float64 {
	maxHP := u.MaxHP()
	if maxHP <= 0 {
		return 1
	}
	return u.HP / maxHP
}

func ids(units []model.Unit) []model.UnitID {
	out := make([]model.UnitID, len(units))
	for i := range units {
		out[i] = units[i].ID
	}
	return out
}
