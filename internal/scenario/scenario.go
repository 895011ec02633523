// Package scenario turns a simulation config into the initial battle:
// units assembled from the data tables with their gear, and the rules bound
// to them.
package scenario

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/model"
)

// MaxPartySize is the number of character slots.
const MaxPartySize = 4

const (
	maxEidolon = 6
	maxRelics  = 6
)

var (
	ErrEmptyParty          = errors.New("party is empty")
	ErrPartyTooLarge       = errors.New("party has more than 4 members")
	ErrDuplicateMember     = errors.New("character appears twice in party")
	ErrUnknownCharacter    = errors.New("unknown character")
	ErrNoEnemies           = errors.New("no enemies")
	ErrUnknownEnemy        = errors.New("unknown enemy")
	ErrUnknownLightCone    = errors.New("unknown light cone")
	ErrUnknownRelicSet     = errors.New("unknown relic set")
	ErrInvalidRounds       = errors.New("rounds must be positive")
	ErrInvalidRotation     = errors.New("invalid rotation")
	ErrInvalidEidolon      = errors.New("eidolon must be in [0, 6]")
	ErrInvalidRank         = errors.New("superimposition must be in [1, 5]")
	ErrTooManyRelics       = errors.New("more than 6 relics equipped")
	ErrInvalidUltStrategy  = errors.New("invalid ultimate strategy")
	ErrInvalidInitialRatio = errors.New("initial energy must be in [0, 1]")
)

// Config is a simulation request: who fights whom, for how long.
type Config struct {
	Name     string `yaml:"name,omitempty"`
	Seed     uint64 `yaml:"seed,omitempty"`
	Rounds   int    `yaml:"rounds"`
	MaxTurns int    `yaml:"max_turns,omitempty"`
	// InitialEnergy is the share of max energy characters start with;
	// nil keeps the engine default.
	InitialEnergy *float64 `yaml:"initial_energy,omitempty"`

	Party   []Member    `yaml:"party"`
	Enemies []EnemySlot `yaml:"enemies"`
	// Weaknesses, when non-empty, replaces every enemy's weaknesses.
	Weaknesses model.ElementSet `yaml:"weaknesses,omitempty"`
}

// Member is one party slot.
type Member struct {
	Character   string            `yaml:"character"`
	Level       int               `yaml:"level,omitempty"`
	Eidolon     int               `yaml:"eidolon,omitempty"`
	LightCone   *Equipped         `yaml:"light_cone,omitempty"`
	Relics      []Relic           `yaml:"relics,omitempty"`
	Rotation    string            `yaml:"rotation,omitempty"`
	UltStrategy model.UltStrategy `yaml:"ult_strategy,omitempty"`
	UltCooldown int               `yaml:"ult_cooldown,omitempty"`
	Rules       []rules.Ref       `yaml:"rules,omitempty"`
}

// Equipped is a light cone at a superimposition rank.
type Equipped struct {
	ID              string `yaml:"id"`
	Superimposition int    `yaml:"superimposition,omitempty"`
}

// Rank returns the superimposition, defaulting to 1.
func (e Equipped) Rank() int {
	if e.Superimposition == 0 {
		return 1
	}
	return e.Superimposition
}

// Relic is one equipped relic piece.
type Relic struct {
	Set  string           `yaml:"set"`
	Main model.Modifier   `yaml:"main"`
	Subs []model.Modifier `yaml:"subs,omitempty"`
}

// EnemySlot is one enemy with optional overrides; zero keeps the table value.
type EnemySlot struct {
	Enemy     string  `yaml:"enemy"`
	Level     int     `yaml:"level,omitempty"`
	HP        float64 `yaml:"hp,omitempty"`
	Toughness float64 `yaml:"toughness,omitempty"`
	SPD       float64 `yaml:"spd,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return c, fmt.Errorf("scenario %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a scenario from YAML.
func Parse(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("parsing scenario: %w", err)
	}
	return c, nil
}

// Digest returns a stable hex key of the scenario content.
func (c Config) Digest() string {
	sum := c.sum()
	return hex.EncodeToString(sum[:])
}

// EffectiveSeed returns Seed, or a seed derived from the digest when unset.
func (c Config) EffectiveSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	sum := c.sum()
	return binary.LittleEndian.Uint64(sum[:8])
}

func (c Config) sum() [blake2b.Size256]byte {
	c.Seed = 0
	raw, err := yaml.Marshal(c)
	if err != nil {
		// Config holds only plain data; Marshal cannot fail on it.
		panic(fmt.Sprintf("marshal scenario: %v", err))
	}
	return blake2b.Sum256(raw)
}

// ParseRotation parses a rotation pattern of 'b' (basic) and 's' (skill)
// characters; spaces and commas are ignored. An empty pattern is valid and
// means basic attacks only.
func ParseRotation(p string) ([]model.AbilityKind, error) {
	var out []model.AbilityKind
	for _, r := range strings.ToLower(p) {
		switch r {
		case 'b':
			out = append(out, model.AbilityBasic)
		case 's':
			out = append(out, model.AbilitySkill)
		case ' ', ',':
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidRotation, p)
		}
	}
	return out, nil
}
