package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/math-hero/backend/internal/models"
)

// Level is a difficulty tier. It controls the first operand's range and
// the per-question time limit; the second operand is always 1-10.
type Level int

const (
	LevelTables1to3  Level = 1
	LevelTables4to6  Level = 2
	LevelTables7to10 Level = 3
	LevelTables1to6  Level = 4
	LevelAllTables   Level = 5
	LevelTimed       Level = 6
)

// NumLevels is the size of the level enumeration.
const NumLevels = 6

// Valid reports whether l is within the level enumeration.
func (l Level) Valid() bool {
	return l >= LevelTables1to3 && l <= LevelTimed
}

// operandRange is the inclusive range the first operand is drawn from.
type operandRange struct {
	Min, Max int
}

// levelRanges is tuning data, not control flow: tiers stay ordered and
// non-overlapping per level, but the cut points are adjustable.
var levelRanges = map[Level]operandRange{
	LevelTables1to3:  {1, 3},
	LevelTables4to6:  {4, 6},
	LevelTables7to10: {7, 10},
	LevelTables1to6:  {1, 6},
	LevelAllTables:   {1, 10},
	LevelTimed:       {1, 10},
}

const (
	secondOperandMax = 10

	// optionCount is options per question: the correct product plus
	// three distractors.
	optionCount = 4

	// repeatProbability is the chance a round re-issues one of the
	// player's missed questions instead of a fresh one.
	repeatProbability = 0.2

	// Distractor search: after maxDistractorTries misses the offset
	// range widens, so the loop terminates even for tiny products
	// where correct±[1,5] collides constantly.
	distractorOffsetMax = 5
	maxDistractorTries  = 50

	// Scoring.
	basePoints         = 10
	fastBonusPoints    = 5
	fastBonusThreshold = 5 // seconds remaining

	// Time limits.
	standardTimeLimit = 10
	timedLimitEarly   = 8
	timedLimitMid     = 6
	timedLimitLate    = 4
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// GenerateQuestion produces one multiplication question for the given
// level. With a 20% chance it re-issues a question from failedKeys
// (keys look like "7x8") to reinforce mistakes. It always returns a
// valid question; an out-of-range level falls back to a fixed question
// rather than failing.
func GenerateQuestion(level Level, failedKeys []string) models.Question {
	rngMu.Lock()
	defer rngMu.Unlock()
	return generateQuestion(rng, level, failedKeys)
}

func generateQuestion(r *rand.Rand, level Level, failedKeys []string) models.Question {
	var a, b int

	if len(failedKeys) > 0 && r.Float64() < repeatProbability {
		key := failedKeys[r.Intn(len(failedKeys))]
		if pa, pb, ok := ParseQuestionKey(key); ok {
			a, b = pa, pb
		}
	}

	if a == 0 {
		if rr, ok := levelRanges[level]; ok {
			a = rr.Min + r.Intn(rr.Max-rr.Min+1)
			b = 1 + r.Intn(secondOperandMax)
		} else {
			// Precondition violation upstream; keep the game playable.
			a, b = 2, 2
		}
	}

	correct := a * b
	options := buildOptions(r, correct)

	return models.Question{A: a, B: b, Correct: correct, Options: options}
}

// buildOptions returns optionCount distinct positive values containing
// correct exactly once, shuffled.
func buildOptions(r *rand.Rand, correct int) []int {
	seen := map[int]bool{correct: true}
	options := []int{correct}

	offsetMax := distractorOffsetMax
	tries := 0
	for len(options) < optionCount {
		offset := 1 + r.Intn(offsetMax)
		fake := correct + offset
		if r.Intn(2) == 0 {
			fake = correct - offset
		}
		if fake > 0 && !seen[fake] {
			seen[fake] = true
			options = append(options, fake)
		}

		tries++
		if tries >= maxDistractorTries {
			tries = 0
			offsetMax += distractorOffsetMax
		}
	}

	r.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// GetTimeLimit returns the seconds allowed for the question at
// questionIndex (0-based) within a round. The timed level shrinks the
// allowance in steps as the round progresses; every other level is
// constant.
func GetTimeLimit(level Level, questionIndex int) int {
	if level == LevelTimed {
		switch {
		case questionIndex < 3:
			return timedLimitEarly
		case questionIndex < 6:
			return timedLimitMid
		default:
			return timedLimitLate
		}
	}
	return standardTimeLimit
}

// CalculatePoints scores one answer. Wrong answers (including the -1
// timeout sentinel) are worth nothing; correct answers earn the base
// value plus a bonus when answered with time to spare.
func CalculatePoints(isCorrect bool, timeLeft int) int {
	if !isCorrect {
		return 0
	}
	points := basePoints
	if timeLeft > fastBonusThreshold {
		points += fastBonusPoints
	}
	return points
}

// QuestionKey formats operands as the order-preserving "AxB" key used
// for repetition lookups and persisted failed questions.
func QuestionKey(a, b int) string {
	return fmt.Sprintf("%dx%d", a, b)
}

// ParseQuestionKey parses an "AxB" key back into its operands.
func ParseQuestionKey(key string) (a, b int, ok bool) {
	parts := strings.SplitN(key, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return 0, 0, false
	}
	return a, b, true
}
