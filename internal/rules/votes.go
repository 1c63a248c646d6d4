package rules

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
)

// Vote types across reviews and setup posts.
const (
	VoteLike     = "like"
	VoteDislike  = "dislike"
	VoteCleanest = "cleanest"
	VoteRGB      = "rgb"
	VoteBudget   = "budget"
)

// VoteOutcome describes what a vote request did.
type VoteOutcome string

const (
	VoteAdded    VoteOutcome = "added"
	VoteRemoved  VoteOutcome = "removed"
	VoteSwitched VoteOutcome = "switched"
)

var ErrUnknownVoteType = errors.New("unknown vote type")

var reviewCounters = map[string]string{
	VoteLike:    "likes",
	VoteDislike: "dislikes",
}

var setupCounters = map[string]string{
	VoteLike:     "likes",
	VoteDislike:  "dislikes",
	VoteCleanest: "cleanest_votes",
	VoteRGB:      "rgb_votes",
	VoteBudget:   "budget_votes",
}

// Setup votes belong to one of two independent groups; a user holds at
// most one active vote per group.
var setupGroups = [][]string{
	{VoteLike, VoteDislike},
	{VoteCleanest, VoteRGB, VoteBudget},
}

func setupGroupOf(voteType string) []string {
	for _, group := range setupGroups {
		for _, t := range group {
			if t == voteType {
				return group
			}
		}
	}
	return nil
}

// bumpCounter adjusts a denormalized counter column, clamped at zero.
func bumpCounter(tx *gorm.DB, model interface{}, id int, column string, delta int) error {
	var expr interface{}
	if delta >= 0 {
		expr = gorm.Expr(column+" + ?", delta)
	} else {
		expr = gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
	}
	return tx.Model(model).Where("id = ?", id).UpdateColumn(column, expr).Error
}

// VoteReview applies the one-active-vote rule to a review: no prior vote
// inserts, the same type toggles off, the other type switches. Counter
// changes ride in the same transaction as the vote-row write. A like from
// another user pays the author ReviewLikePoints and notifies them.
func VoteReview(db *gorm.DB, userID, reviewID int, voteType string) (VoteOutcome, error) {
	if _, ok := reviewCounters[voteType]; !ok {
		return "", ErrUnknownVoteType
	}

	var outcome VoteOutcome
	err := db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			return err
		}

		var existing models.ReviewVote
		err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.ReviewVote{UserID: userID, ReviewID: reviewID, VoteType: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := bumpCounter(tx, &models.Review{}, reviewID, reviewCounters[voteType], +1); err != nil {
				return err
			}
			outcome = VoteAdded

		case err != nil:
			return err

		case existing.VoteType == voteType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := bumpCounter(tx, &models.Review{}, reviewID, reviewCounters[voteType], -1); err != nil {
				return err
			}
			outcome = VoteRemoved

		default:
			if err := bumpCounter(tx, &models.Review{}, reviewID, reviewCounters[existing.VoteType], -1); err != nil {
				return err
			}
			existing.VoteType = voteType
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			if err := bumpCounter(tx, &models.Review{}, reviewID, reviewCounters[voteType], +1); err != nil {
				return err
			}
			outcome = VoteSwitched
		}

		if outcome == VoteRemoved || review.UserID == userID {
			return nil
		}

		if voteType == VoteLike {
			if err := tx.Model(&models.User{}).Where("id = ?", review.UserID).
				UpdateColumn("popularity_points", gorm.Expr("popularity_points + ?", ReviewLikePoints)).Error; err != nil {
				return err
			}
		}

		var voter models.User
		if err := tx.First(&voter, userID).Error; err != nil {
			return err
		}
		return notify.User(tx, review.UserID,
			"Review Interaction",
			fmt.Sprintf("%s %sd your review", voter.Username, voteType),
			"review")
	})
	return outcome, err
}

// VoteSetup applies the same rule per vote group on a setup post. The
// reaction and badge groups are independent, so a user can hold a like
// and a badge vote at once.
func VoteSetup(db *gorm.DB, userID, setupID int, voteType string) (VoteOutcome, error) {
	group := setupGroupOf(voteType)
	if group == nil {
		return "", ErrUnknownVoteType
	}

	var outcome VoteOutcome
	err := db.Transaction(func(tx *gorm.DB) error {
		var setup models.SetupPost
		if err := tx.First(&setup, setupID).Error; err != nil {
			return err
		}

		var existing models.SetupVote
		err := tx.Where("user_id = ? AND setup_id = ? AND vote_type IN ?", userID, setupID, group).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.SetupVote{UserID: userID, SetupID: setupID, VoteType: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			outcome = VoteAdded
			return bumpCounter(tx, &models.SetupPost{}, setupID, setupCounters[voteType], +1)

		case err != nil:
			return err

		case existing.VoteType == voteType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			outcome = VoteRemoved
			return bumpCounter(tx, &models.SetupPost{}, setupID, setupCounters[voteType], -1)

		default:
			if err := bumpCounter(tx, &models.SetupPost{}, setupID, setupCounters[existing.VoteType], -1); err != nil {
				return err
			}
			existing.VoteType = voteType
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			outcome = VoteSwitched
			return bumpCounter(tx, &models.SetupPost{}, setupID, setupCounters[voteType], +1)
		}
	})
	return outcome, err
}
