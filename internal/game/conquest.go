package game

import (
	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

const (
	silencePenalty = 1
	cancelPenalty  = 4
	upheldDefender = 3
	upheldAttacker = 2
)

// =============================================================================
// CONQUEST: CIVILIZATIONS
// =============================================================================

func (r *Room) startCivSelect() {
	r.enterPhase(internal.PhaseCivSelect, internal.CivSelectDetail{
		Civilizations: r.catalog.Civilizations(),
	})
}

func (r *Room) civTaken(civID string) bool {
	for _, p := range r.Players {
		if p.Civilization == civID {
			return true
		}
	}
	return false
}

func (r *Room) chooseCiv(pid, civID string) {
	if r.Phase != internal.PhaseCivSelect {
		return
	}
	p, ok := r.Players[pid]
	if !ok || p.Civilization != "" {
		return
	}
	if _, ok := r.catalog.Civilization(civID); !ok {
		return
	}
	if r.civTaken(civID) {
		r.sendError(p.Conn, "That civilization is already taken")
		return
	}
	p.Civilization = civID

	r.broadcastAll(internal.NewMessage(internal.MsgCivChosen, internal.CivChosenData{
		PlayerID: pid,
		CivID:    civID,
	}))
	if r.allChoseCiv() {
		r.startRoundStart()
	}
}

func (r *Room) allChoseCiv() bool {
	for _, p := range r.Players {
		if p.Civilization == "" {
			return false
		}
	}
	return len(r.Players) > 0
}

// resolveCivs hands each undecided player, in join order, the first free
// civilization of the catalog.
func (r *Room) resolveCivs() {
	for _, p := range r.OrderedPlayers() {
		if p.Civilization != "" {
			continue
		}
		for _, civ := range r.catalog.Civilizations() {
			if !r.civTaken(civ.ID) {
				p.Civilization = civ.ID
				break
			}
		}
		if p.Civilization == "" {
			r.log.Warn().Str("player", p.Id).Msg("[resolveCivs] no civilization left to assign")
			continue
		}
		r.broadcastAll(internal.NewMessage(internal.MsgCivChosen, internal.CivChosenData{
			PlayerID: p.Id,
			CivID:    p.Civilization,
			Auto:     true,
		}))
	}
	r.startRoundStart()
}

// =============================================================================
// CONQUEST: ATTACKS
// =============================================================================

func (r *Room) startRoundStart() {
	r.State.Attackers = utils.Shuffle(r.rng, r.PlayerIDs())
	r.State.AttackerIdx = -1
	r.enterPhase(internal.PhaseRoundStart, internal.RoundStartDetail{AttackerOrder: r.State.Attackers})
}

// nextAttacker walks the attacker order, skipping players who have left,
// and opens the rating once it runs out.
func (r *Room) nextAttacker() {
	r.State.Attack = nil
	for {
		r.State.AttackerIdx++
		if r.State.AttackerIdx >= len(r.State.Attackers) {
			r.startRating()
			return
		}
		if aid := r.State.Attackers[r.State.AttackerIdx]; r.present(aid) {
			r.startAttackPrep(aid)
			return
		}
	}
}

func (r *Room) attackTargets(attacker *internal.Player) []internal.AttackTarget {
	var targets []internal.AttackTarget
	for _, p := range r.OrderedPlayers() {
		if p.Id == attacker.Id {
			continue
		}
		facts := r.catalog.Facts(attacker.Civilization, p.Civilization)
		for i := range facts {
			facts[i] = facts[i].PublicView()
		}
		targets = append(targets, internal.AttackTarget{
			PlayerID:     p.Id,
			Username:     p.Username,
			Civilization: p.Civilization,
			Facts:        facts,
		})
	}
	return targets
}

func (r *Room) startAttackPrep(aid string) {
	attacker := r.Players[aid]
	a := &internal.Attack{
		AttackerID:   aid,
		Targets:      r.attackTargets(attacker),
		AttackerHand: utils.Sample(r.rng, r.catalog.Fallacies(r.difficulty()), internal.HandSize),
	}
	r.State.Attack = a

	r.enterPhase(internal.PhaseAttackPrep, internal.AttackerDetail{AttackerID: aid})
	r.sendPrivate(aid, internal.NewMessage(internal.MsgAttackOptions, internal.AttackOptionsData{
		Targets: a.Targets,
		Hand:    a.AttackerHand,
	}))
}

func findCard(hand []catalog.Fallacy, id int) (catalog.Fallacy, bool) {
	for _, f := range hand {
		if f.ID == id {
			return f, true
		}
	}
	return catalog.Fallacy{}, false
}

func (r *Room) chooseAttack(pid string, cmd internal.ChooseAttack) {
	a := r.State.Attack
	if r.Phase != internal.PhaseAttackPrep || a == nil || a.AttackerID != pid || a.DefenderID != "" {
		return
	}

	var target *internal.AttackTarget
	for i := range a.Targets {
		if a.Targets[i].PlayerID == cmd.DefenderID && r.present(cmd.DefenderID) {
			target = &a.Targets[i]
		}
	}
	if target == nil {
		return
	}

	factID := ""
	if len(target.Facts) > 0 {
		for _, f := range target.Facts {
			if f.ID == cmd.FactID {
				factID = f.ID
			}
		}
		if factID == "" {
			return
		}
	}

	cardID := 0
	if len(a.AttackerHand) > 0 {
		card, ok := findCard(a.AttackerHand, int(cmd.FallacyID))
		if !ok {
			return
		}
		cardID = card.ID
	}

	a.DefenderID, a.FactID, a.FallacyID = target.PlayerID, factID, cardID
	r.startDefense()
}

// resolveAttackPrep picks the first target still present, its first fact
// and the first card of the hand.
func (r *Room) resolveAttackPrep() {
	a := r.State.Attack
	if a == nil {
		r.nextAttacker()
		return
	}
	for _, t := range a.Targets {
		if !r.present(t.PlayerID) {
			continue
		}
		a.DefenderID = t.PlayerID
		if len(t.Facts) > 0 {
			a.FactID = t.Facts[0].ID
		}
		if len(a.AttackerHand) > 0 {
			a.FallacyID = a.AttackerHand[0].ID
		}
		r.startDefense()
		return
	}
	r.nextAttacker()
}

// fact looks up the full confrontation fact, defense notes included.
func (r *Room) fact(a *internal.Attack) *catalog.Fact {
	if a.FactID == "" {
		return nil
	}
	attacker, defender := r.Players[a.AttackerID], r.Players[a.DefenderID]
	if attacker == nil || defender == nil {
		return nil
	}
	for _, f := range r.catalog.Facts(attacker.Civilization, defender.Civilization) {
		if f.ID == a.FactID {
			return &f
		}
	}
	return nil
}

func (r *Room) startDefense() {
	a := r.State.Attack
	a.DefenderHand = utils.Sample(r.rng, r.catalog.Fallacies(r.difficulty()), internal.HandSize)

	full := r.fact(a)
	var public *catalog.Fact
	if full != nil {
		v := full.PublicView()
		public = &v
	}
	var card *catalog.Fallacy
	if f, ok := r.catalog.Fallacy(a.FallacyID); ok {
		card = &f
	}

	r.enterPhase(internal.PhaseDefense, internal.AttackerDetail{AttackerID: a.AttackerID, DefenderID: a.DefenderID})
	r.broadcastAll(internal.NewMessage(internal.MsgAttackDeclared, internal.AttackDeclaredData{
		AttackerID: a.AttackerID,
		DefenderID: a.DefenderID,
		Fact:       public,
		Fallacy:    card,
	}))
	r.sendPrivate(a.DefenderID, internal.NewMessage(internal.MsgDefenseOptions, internal.DefenseOptionsData{
		AttackerID: a.AttackerID,
		Fact:       full,
		Hand:       a.DefenderHand,
	}))
}

// =============================================================================
// CONQUEST: DEFENSE & CANCEL VOTE
// =============================================================================

func (r *Room) defenseChoice(pid string, cmd internal.DefenseChoice) {
	a := r.State.Attack
	if r.Phase != internal.PhaseDefense || a == nil || a.DefenderID != pid || a.Defense != "" {
		return
	}
	if cmd.Choice == internal.DefenseSilence {
		r.resolveSilence()
		return
	}

	var card *catalog.Fallacy
	if cmd.FallacyID != nil {
		f, ok := findCard(a.DefenderHand, int(*cmd.FallacyID))
		if !ok {
			return
		}
		a.DefenseCard = f.ID
		card = &f
	}
	a.Defense = internal.DefenseSpeak

	r.broadcastAll(internal.NewMessage(internal.MsgDefenseResult, internal.DefenseResultData{
		DefenderID: pid,
		Choice:     internal.DefenseSpeak,
		Fallacy:    card,
	}))
	r.startCancelVote()
}

// resolveSilence costs the defender a point and skips the cancel vote.
func (r *Room) resolveSilence() {
	a := r.State.Attack
	if a == nil {
		r.nextAttacker()
		return
	}
	if !r.present(a.DefenderID) {
		r.abandonConfrontation()
		return
	}
	a.Defense = internal.DefenseSilence
	r.broadcastAll(internal.NewMessage(internal.MsgDefenseResult, internal.DefenseResultData{
		DefenderID: a.DefenderID,
		Choice:     internal.DefenseSilence,
	}))

	r.State.RoundScores[a.DefenderID] -= silencePenalty
	r.commitConfrontation(internal.OutcomeSilenced, 0, 0, map[string]int{a.DefenderID: -silencePenalty})
}

// cancelEligible counts everyone in the room but the two debaters.
func (r *Room) cancelEligible() int {
	a := r.State.Attack
	n := 0
	for pid := range r.Players {
		if a != nil && (pid == a.AttackerID || pid == a.DefenderID) {
			continue
		}
		n++
	}
	return n
}

func (r *Room) cancelVotesCast() int {
	return internal.CountResponded(r.Room, r.State.CancelVotes)
}

func (r *Room) startCancelVote() {
	a := r.State.Attack
	eligible := r.cancelEligible()
	r.enterPhase(internal.PhaseCancelVote, internal.CancelVoteDetail{
		AttackerID: a.AttackerID,
		DefenderID: a.DefenderID,
		Eligible:   eligible,
	})
	if eligible == 0 {
		r.resolveCancelVote()
	}
}

func (r *Room) castCancelVote(pid string, cancel bool) {
	a := r.State.Attack
	if r.Phase != internal.PhaseCancelVote || a == nil || !r.present(pid) {
		return
	}
	if pid == a.AttackerID || pid == a.DefenderID {
		return
	}
	if _, dup := r.State.CancelVotes[pid]; dup {
		return
	}
	r.State.CancelVotes[pid] = cancel

	voted, eligible := r.cancelVotesCast(), r.cancelEligible()
	r.broadcastAll(internal.NewMessage(internal.MsgCancelVoteCast, internal.CancelVoteCastData{
		Voted:    voted,
		Eligible: eligible,
	}))
	if voted >= eligible {
		r.resolveCancelVote()
	}
}

// resolveCancelVote tallies against the current room membership.
func (r *Room) resolveCancelVote() {
	a := r.State.Attack
	if a == nil {
		r.nextAttacker()
		return
	}
	if !r.present(a.DefenderID) {
		r.abandonConfrontation()
		return
	}

	cancels := 0
	for _, cancel := range presentOnly(r, r.State.CancelVotes) {
		if cancel {
			cancels++
		}
	}
	eligible := r.cancelEligible()

	if CancelSucceeded(cancels, eligible) {
		r.State.RoundScores[a.DefenderID] -= cancelPenalty
		r.commitConfrontation(internal.OutcomeCancelled, cancels, eligible, map[string]int{
			a.DefenderID: -cancelPenalty,
		})
		return
	}
	r.State.RoundScores[a.DefenderID] += upheldDefender
	r.State.RoundScores[a.AttackerID] += upheldAttacker
	r.commitConfrontation(internal.OutcomeUpheld, cancels, eligible, map[string]int{
		a.DefenderID: upheldDefender,
		a.AttackerID: upheldAttacker,
	})
}

// abandonConfrontation discards an attack one of whose debaters has left.
func (r *Room) abandonConfrontation() {
	r.commitConfrontation(internal.OutcomeAbandoned, 0, 0, map[string]int{})
}

// commitConfrontation logs the finished attack and moves to the next attacker.
func (r *Room) commitConfrontation(outcome internal.ConfrontationOutcome, cancels, eligible int, deltas map[string]int) {
	a := r.State.Attack
	rec := internal.SpeechRecord{
		Round:       r.GameRound(),
		AttackerID:  a.AttackerID,
		DefenderID:  a.DefenderID,
		FactID:      a.FactID,
		FallacyID:   a.FallacyID,
		DefenseCard: a.DefenseCard,
		Outcome:     outcome,
		CancelVotes: cancels,
		Eligible:    eligible,
	}
	r.State.Speeches = append(r.State.Speeches, rec)

	r.log.Info().Str("attacker", a.AttackerID).Str("defender", a.DefenderID).Msgf("[commitConfrontation] %s", outcome)
	r.broadcastAll(internal.NewMessage(internal.MsgConfrontationResult, internal.ConfrontationResultData{
		Record: rec,
		Deltas: deltas,
	}))
	r.nextAttacker()
}

// =============================================================================
// CONQUEST: RATING
// =============================================================================

func (r *Room) startRating() {
	r.enterPhase(internal.PhaseRating, internal.RatingDetail{
		TopCount:   RatingTopCount(len(r.Players)),
		Candidates: r.PlayerIDs(),
	})
}

// submitRating keeps the first ballot of each voter. Repeated and unknown
// ids are dropped from the ranking.
func (r *Room) submitRating(pid string, ranking []string) {
	if r.Phase != internal.PhaseRating || !r.present(pid) {
		return
	}
	if _, dup := r.State.Ratings[pid]; dup {
		return
	}
	seen := make(map[string]bool, len(ranking))
	ballot := make([]string, 0, len(ranking))
	for _, id := range ranking {
		if seen[id] || !r.present(id) {
			continue
		}
		seen[id] = true
		ballot = append(ballot, id)
	}
	r.State.Ratings[pid] = ballot

	submitted := internal.CountResponded(r.Room, r.State.Ratings)
	r.broadcastAll(internal.NewMessage(internal.MsgRatingSubmitted, internal.RatingSubmittedData{
		Submitted: submitted,
		Total:     len(r.Players),
	}))
	if submitted == len(r.Players) {
		r.resolveRating()
	}
}

// resolveRating is the single scoring point of a conquest round.
func (r *Room) resolveRating() {
	top := RatingTopCount(len(r.Players))
	points := TallyRatings(presentOnly(r, r.State.Ratings), top)
	r.applyRound(points)

	r.broadcastAll(internal.NewMessage(internal.MsgRatingResults, internal.RatingResultsData{
		TopCount: top,
		Points:   points,
	}))
	r.startMap()
}
