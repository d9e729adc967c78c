package game

import (
	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

// =============================================================================
// CLASSIC: TOPIC SELECTION
// =============================================================================

func (r *Room) startTopicSelect() {
	diff := r.difficulty()
	pool := r.catalog.Topics(diff)
	for _, pid := range r.PlayerIDs() {
		r.State.TopicOptions[pid] = utils.Sample(r.rng, pool, internal.TopicOptionsPerPlayer)
	}

	r.enterPhase(internal.PhaseTopicSelect, internal.TopicSelectDetail{Difficulty: diff})
	for pid, options := range r.State.TopicOptions {
		r.sendPrivate(pid, internal.NewMessage(internal.MsgTopicOptions, internal.TopicOptionsData{
			Options:    options,
			Difficulty: diff,
		}))
	}
}

func (r *Room) chooseTopic(pid string, index int) {
	if r.Phase != internal.PhaseTopicSelect {
		return
	}
	p, ok := r.Players[pid]
	if !ok || p.Topic != "" {
		return
	}
	options := r.State.TopicOptions[pid]
	if index < 0 || index >= len(options) {
		return
	}
	p.Topic = options[index]

	r.broadcastAll(internal.NewMessage(internal.MsgTopicChosen, internal.TopicChosenData{
		PlayerID: pid,
		Chosen:   r.topicsChosen(),
		Total:    len(r.Players),
	}))
	if r.allChoseTopic() {
		r.startFallacyDeal()
	}
}

func (r *Room) topicsChosen() int {
	n := 0
	for _, p := range r.Players {
		if p.Topic != "" {
			n++
		}
	}
	return n
}

func (r *Room) allChoseTopic() bool {
	return len(r.Players) > 0 && r.topicsChosen() == len(r.Players)
}

// resolveTopics gives everyone still undecided their first option.
func (r *Room) resolveTopics() {
	for _, p := range r.OrderedPlayers() {
		if p.Topic != "" {
			continue
		}
		if options := r.State.TopicOptions[p.Id]; len(options) > 0 {
			p.Topic = options[0]
		}
	}
	r.startFallacyDeal()
}

// =============================================================================
// CLASSIC: DEAL, SPEECHES, VOTE
// =============================================================================

func (r *Room) startFallacyDeal() {
	diff := r.difficulty()
	pool := r.catalog.Fallacies(diff)
	for _, pid := range r.PlayerIDs() {
		r.State.Hands[pid] = utils.Sample(r.rng, pool, internal.HandSize)
	}

	r.enterPhase(internal.PhaseFallacyDeal, internal.FallacyDealDetail{
		Difficulty: diff,
		HandSize:   internal.HandSize,
	})
	for pid, hand := range r.State.Hands {
		r.sendPrivate(pid, internal.NewMessage(internal.MsgHand, internal.HandData{Cards: hand}))
	}
}

func (r *Room) startSpeech() {
	r.State.Speakers = utils.Shuffle(r.rng, r.PlayerIDs())
	r.State.SpeakerIdx = -1
	r.advanceSpeaker()
}

func (r *Room) currentSpeaker() string {
	idx := r.State.SpeakerIdx
	if r.Phase != internal.PhaseSpeech || idx < 0 || idx >= len(r.State.Speakers) {
		return ""
	}
	return r.State.Speakers[idx]
}

// advanceSpeaker hands the floor to the next speaker still in the room, or
// opens the vote once everyone has spoken.
func (r *Room) advanceSpeaker() {
	for {
		r.State.SpeakerIdx++
		if r.State.SpeakerIdx >= len(r.State.Speakers) {
			r.startVote()
			return
		}
		if r.present(r.State.Speakers[r.State.SpeakerIdx]) {
			break
		}
	}

	p := r.Players[r.State.Speakers[r.State.SpeakerIdx]]
	r.enterPhase(internal.PhaseSpeech, internal.SpeakerDetail{
		PlayerID: p.Id,
		Username: p.Username,
		Topic:    p.Topic,
		Index:    r.State.SpeakerIdx + 1,
		Total:    len(r.State.Speakers),
	})
}

func (r *Room) markSpeechDone(pid string) {
	if pid == "" || r.currentSpeaker() != pid {
		return
	}
	r.advanceSpeaker()
}

func (r *Room) startVote() {
	r.enterPhase(internal.PhaseVote, internal.CandidatesDetail{Candidates: r.PlayerIDs()})
}

func (r *Room) vote(pid, target string) {
	if r.Phase != internal.PhaseVote || !r.present(pid) || !r.present(target) || pid == target {
		return
	}
	if _, dup := r.State.Votes[pid]; dup {
		return
	}
	r.State.Votes[pid] = target

	voted := internal.CountResponded(r.Room, r.State.Votes)
	r.broadcastAll(internal.NewMessage(internal.MsgVoteCast, internal.VoteCastData{
		Voted: voted,
		Total: len(r.Players),
	}))
	if voted == len(r.Players) {
		r.resolveVote()
	}
}

// resolveVote is the single scoring point of a classic round.
func (r *Room) resolveVote() {
	votes := make(map[string]string, len(r.State.Votes))
	for voter, target := range presentOnly(r, r.State.Votes) {
		if r.present(target) {
			votes[voter] = target
		}
	}
	counts, points := TallyVotes(votes)
	r.applyRound(points)

	r.broadcastAll(internal.NewMessage(internal.MsgVoteResults, internal.VoteResultsData{
		Votes:  counts,
		Points: points,
	}))
	r.startMap()
}
