package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/rng"
)

func attacker(atk float64) *model.Unit {
	return &model.Unit{
		ID:      "a",
		Element: model.Fire,
		Level:   80,
		Stats:   model.Stats{model.StatATK: atk, model.StatHP: 3000, model.StatDEF: 600, model.StatCritDmg: 0.5},
	}
}

func defender() *model.Unit {
	return &model.Unit{ID: "d", IsEnemy: true, Level: 80, Stats: model.Stats{model.StatHP: 100000}}
}

func TestDamage_Baseline(t *testing.T) {
	for _, atk := range []float64{1, 500, 1234, 4000} {
		r := rng.Constant(0.999)
		got := Damage(Hit{
			Attacker:   attacker(atk),
			Defender:   defender(),
			Ability:    model.AbilityBasic,
			Element:    model.Fire,
			Multiplier: 1,
		}, &r)
		assert.Equal(t, atk, got.Damage, "atk %v", atk)
		assert.False(t, got.Crit)
	}
}

func TestDamage_Crit(t *testing.T) {
	a := attacker(1000)
	a.Stats[model.StatCritRate] = 0.5
	a.Stats[model.StatCritDmg] = 1.0

	r := rng.Constant(0.1)
	got := Damage(Hit{Attacker: a, Defender: defender(), Element: model.Fire, Multiplier: 1}, &r)
	assert.True(t, got.Crit)
	assert.Equal(t, 2000.0, got.Damage)
	assert.InDelta(t, 1500, got.Expected, 1e-9)

	r = rng.Constant(0.9)
	got = Damage(Hit{Attacker: a, Defender: defender(), Element: model.Fire, Multiplier: 1}, &r)
	assert.False(t, got.Crit)
	assert.Equal(t, 1000.0, got.Damage)
}

func TestDamage_MultiplierChain(t *testing.T) {
	a := attacker(1000)
	a.Stats[model.DmgBoostKey(model.Fire)] = 0.2
	a.Stats[model.StatSkillDmgBoost] = 0.1
	d := defender()
	d.Stats[model.StatDEF] = 1000
	d.Stats[model.ResKey(model.Fire)] = 0.2
	d.Stats[model.StatAllTypeVuln] = 0.1
	d.MaxToughness, d.Toughness = 100, 100

	r := rng.Constant(0.999)
	got := Damage(Hit{Attacker: a, Defender: d, Ability: model.AbilitySkill, Element: model.Fire, Multiplier: 2}, &r)

	def := 1 - 1000.0/(1000+200+800)
	want := 2000 * 1.3 * def * 0.8 * 1.1 * 0.9
	assert.Equal(t, float64(int(want)), got.Damage)
}

func TestDefMultiplier(t *testing.T) {
	a := attacker(1000)
	d := defender()
	d.Stats[model.StatDEF] = 1000

	assert.InDelta(t, 0.5, DefMultiplier(a, d, 0, 0), 1e-9)
	assert.InDelta(t, 1-500.0/(500+1000), DefMultiplier(a, d, 0.3, 0.2), 1e-9)
	assert.InDelta(t, 1.0, DefMultiplier(a, d, 0.6, 0.6), 1e-9, "def never below 0")
}

func TestResMultiplier(t *testing.T) {
	tests := []struct {
		name string
		res  float64
		pen  float64
		want float64
	}{
		{"none", 0, 0, 1},
		{"res", 0.2, 0, 0.8},
		{"pen below zero", 0.2, 0.4, 1.2},
		{"capped", 1.5, 0, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := attacker(1)
			a.Stats[model.StatAllTypeResPen] = tt.pen
			d := defender()
			d.Stats[model.ResKey(model.Fire)] = tt.res
			assert.InDelta(t, tt.want, ResMultiplier(a, d, model.Fire, 0), 1e-9)
		})
	}
}

func TestBrokenMultiplier(t *testing.T) {
	d := defender()
	assert.Equal(t, 1.0, BrokenMultiplier(d), "no toughness bar")
	d.MaxToughness, d.Toughness = 60, 30
	assert.Equal(t, UnbrokenMultiplier, BrokenMultiplier(d))
	d.Toughness = 0
	assert.Equal(t, 1.0, BrokenMultiplier(d))
}

func TestToughnessDamage(t *testing.T) {
	a := attacker(1)
	d := defender()
	d.MaxToughness, d.Toughness = 60, 60
	d.Weaknesses = model.NewElementSet(model.Fire)

	assert.Equal(t, 10.0, ToughnessDamage(a, d, model.Fire, 10))
	assert.Zero(t, ToughnessDamage(a, d, model.Ice, 10), "non-weak element")

	a.Stats[model.StatBreakEfficiency] = 0.5
	assert.Equal(t, 15.0, ToughnessDamage(a, d, model.Fire, 10))
}

func TestLevelMultiplier(t *testing.T) {
	assert.Equal(t, 54.0, LevelMultiplier(1))
	assert.Equal(t, 3767.55, LevelMultiplier(80))
	assert.Equal(t, 3767.55, LevelMultiplier(95))
	assert.InDelta(t, 100+0.5*131, LevelMultiplier(25), 1e-9)
	assert.Equal(t, 774.0, LevelMultiplier(50))
}

func TestBreakDamage(t *testing.T) {
	a := attacker(1)
	a.Element = model.Physical
	d := defender()
	d.MaxToughness = 60

	want := 3767.55 * 2.0 * (0.5 + 60.0/40) * 1.0
	assert.Equal(t, float64(int(want)), BreakDamage(a, d))
}

func TestEffectChance(t *testing.T) {
	src := attacker(1)
	src.Stats[model.StatEffectHitRate] = 0.5
	dst := defender()
	dst.Stats[model.StatEffectRes] = 0.2
	dst.Stats[model.StatCrowdControlRes] = 0.5

	assert.InDelta(t, 1.0*1.5*0.8, EffectChance(1, src, dst, false, false), 1e-9)
	assert.InDelta(t, 1.0*1.5*0.8*0.5, EffectChance(1, src, dst, true, false), 1e-9)
	assert.InDelta(t, 0.6, EffectChance(0.6, src, dst, true, true), 1e-9)
}

func TestHealAndShield(t *testing.T) {
	src := attacker(1000)
	src.Stats[model.StatOutgoingHealingBoost] = 0.2
	src.Stats[model.StatShieldStrengthBoost] = 0.1
	dst := defender()
	dst.Stats[model.StatIncomingHealBoost] = 0.5

	heal := Heal(src, dst, model.HealSpec{Scaling: model.ScaleHP, Multiplier: 0.1, Flat: 100})
	assert.InDelta(t, 400*1.2*1.5, heal, 1e-9)

	shield := ShieldValue(src, model.ShieldSpec{Scaling: model.ScaleDEF, Multiplier: 0.5, Flat: 200})
	assert.InDelta(t, 500*1.1, shield, 1e-9)
}

func TestDoTTick(t *testing.T) {
	a := attacker(1000)
	dot := SnapshotDoT(a, model.DoT{Type: model.DoTBurn, Multiplier: 0.5})
	assert.InDelta(t, 500, dot.Fixed, 1e-9)

	d := defender()
	assert.Equal(t, 1000.0, DoTTick(d, dot, 2))
}
