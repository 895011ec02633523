package rules

import (
	"fmt"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const PlanetaryRendezvousID = "planetary_rendezvous"

// PlanetaryRendezvous is a light cone: when battle starts, allies sharing
// the wearer's element gain a damage boost of that element.
// Params: "dmg_boost" (default 0.12).
type PlanetaryRendezvous struct {
	base
	boost float64
}

func NewPlanetaryRendezvous(owner model.UnitID, ref Ref) (battle.Handler, error) {
	boost := ref.Params.Float("dmg_boost", 0.12)
	if boost <= 0 {
		return nil, fmt.Errorf("dmg_boost must be positive, got %v", boost)
	}
	return PlanetaryRendezvous{
		base:  newBase(PlanetaryRendezvousID, owner, 0, event.KindBattleStart),
		boost: boost,
	}, nil
}

func (r PlanetaryRendezvous) Handle(_ event.Event, s battle.State) battle.State {
	wearer, ok := r.ownerAlive(s)
	if !ok {
		return s
	}
	key := model.DmgBoostKey(wearer.Element)
	for _, u := range s.Registry().AliveSide(wearer.IsEnemy) {
		if u.IsSummon || u.Element != wearer.Element {
			continue
		}
		s = s.ApplyEffect(r.owner, u.ID, model.Effect{
			ID:        r.id,
			Name:      "Planetary Rendezvous",
			Category:  model.Buff,
			Duration:  model.Permanent,
			Modifiers: []model.Modifier{{Stat: key, Value: r.boost, Source: r.id}},
		})
	}
	return s
}
