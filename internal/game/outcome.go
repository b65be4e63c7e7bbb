package game

import "github.com/Garsondee/hex-cadence/internal/faction"

type MatchOutcome int

const (
	OutcomeInconclusive MatchOutcome = iota
	OutcomePlayerVictory
	OutcomeEnemyVictory
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomePlayerVictory:
		return "player_victory"
	case OutcomeEnemyVictory:
		return "enemy_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type MatchOutcomeReason struct {
	Outcome         MatchOutcome
	PlayerSurvivors int
	PlayerTotal     int
	EnemySurvivors  int
	EnemyTotal      int
	PlayerBuildings int
	EnemyBuildings  int
	BuildingsRazed  int
	BossFought      bool
	BossAlive       bool
	Description     string
}

// DetermineMatchOutcome judges the match from the live simulation and the
// totals the reporter kept.
func DetermineMatchOutcome(s *Sim, r *SimReporter) MatchOutcomeReason {
	res := MatchOutcomeReason{
		PlayerTotal:    r.Spawned(faction.Player),
		EnemyTotal:     r.Spawned(faction.Enemy),
		BuildingsRazed: r.Razed(),
		BossFought:     r.bossSeen,
	}
	for _, a := range s.Actors() {
		switch a.Team.Side() {
		case faction.Player:
			res.PlayerSurvivors++
		case faction.Enemy:
			res.EnemySurvivors++
			if a.IsBoss() {
				res.BossAlive = true
			}
		}
	}
	for _, b := range s.Buildings.All() {
		if !b.Capturable {
			continue
		}
		switch b.Team.Side() {
		case faction.Player:
			res.PlayerBuildings++
		case faction.Enemy:
			res.EnemyBuildings++
		}
	}

	playerLoss, enemyLoss := 0.0, 0.0
	if res.PlayerTotal > 0 {
		playerLoss = float64(res.PlayerTotal-res.PlayerSurvivors) / float64(res.PlayerTotal)
	}
	if res.EnemyTotal > 0 {
		enemyLoss = float64(res.EnemyTotal-res.EnemySurvivors) / float64(res.EnemyTotal)
	}

	switch {
	case res.PlayerSurvivors == 0 && res.EnemySurvivors == 0:
		res.Outcome, res.Description = OutcomeDraw, "mutual_annihilation"
	case res.BossFought && !res.BossAlive && res.PlayerSurvivors > 0:
		res.Outcome, res.Description = OutcomePlayerVictory, "decisive_player_victory_boss_slain"
	case res.PlayerSurvivors == 0:
		res.Outcome, res.Description = OutcomeEnemyVictory, "decisive_enemy_victory_player_eliminated"
	case res.EnemySurvivors == 0:
		res.Outcome, res.Description = OutcomePlayerVictory, "decisive_player_victory_enemy_eliminated"
	case res.PlayerBuildings > res.EnemyBuildings && enemyLoss >= playerLoss:
		res.Outcome, res.Description = OutcomePlayerVictory, "player_victory_objectives_held"
	case res.EnemyBuildings > res.PlayerBuildings && playerLoss >= enemyLoss:
		res.Outcome, res.Description = OutcomeEnemyVictory, "enemy_victory_objectives_held"
	case enemyLoss-playerLoss > 0.30 && playerLoss < 0.50:
		res.Outcome, res.Description = OutcomePlayerVictory, "marginal_player_victory_casualty_advantage"
	case playerLoss-enemyLoss > 0.30 && enemyLoss < 0.50:
		res.Outcome, res.Description = OutcomeEnemyVictory, "marginal_enemy_victory_casualty_advantage"
	case playerLoss > 0.30 && enemyLoss > 0.30:
		res.Outcome, res.Description = OutcomeDraw, "draw_similar_casualties"
	default:
		res.Outcome, res.Description = OutcomeInconclusive, "inconclusive_insufficient_resolution"
	}
	return res
}
