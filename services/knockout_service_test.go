package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchside/crease/live"
	"github.com/pitchside/crease/models"
	"github.com/smartystreets/goconvey/convey"
)

func knockoutTournament() models.Tournament {
	return models.Tournament{
		ID:     5,
		Name:   "Premier Cup",
		Status: models.TournamentOngoing,
		Groups: []models.Group{
			{Key: "a", Name: "Group A", SquadIDs: []int{1, 2}, QualifierSlots: 2},
			{Key: "b", Name: "Group B", SquadIDs: []int{3, 4}, QualifierSlots: 2},
		},
		Knockout: models.KnockoutConfig{
			AutoSeed: true,
			Stages: []models.KnockoutStageDef{
				{Key: "semi_final", Label: "Semi Final", RequiredMatches: 2, Enabled: true},
			},
		},
	}
}

func knockoutFixtureSetup() (*fakeTournamentRepo, *fakeMatchRepo, KnockoutService) {
	tournamentRepo := newFakeTournamentRepo(knockoutTournament())
	squadRepo := newFakeSquadRepo(
		models.Squad{ID: 1, TournamentID: 5, Name: "Falcons"},
		models.Squad{ID: 2, TournamentID: 5, Name: "Tigers"},
		models.Squad{ID: 3, TournamentID: 5, Name: "Vikings"},
		models.Squad{ID: 4, TournamentID: 5, Name: "Sharks"},
	)
	matchRepo := newFakeMatchRepo()
	// Group results: Falcons > Tigers, Sharks > Vikings.
	matchRepo.add(models.Match{
		TournamentID: 5, Stage: models.StageGroup, Status: models.MatchStatusFinished,
		SideA: models.MatchSide{SquadID: 1, Runs: 150, Balls: 120},
		SideB: models.MatchSide{SquadID: 2, Runs: 120, Balls: 120},
	})
	matchRepo.add(models.Match{
		TournamentID: 5, Stage: models.StageGroup, Status: models.MatchStatusFinished,
		SideA: models.MatchSide{SquadID: 4, Runs: 140, Balls: 120},
		SideB: models.MatchSide{SquadID: 3, Runs: 100, Balls: 120},
	})

	standings := NewStandingsService(tournamentRepo, squadRepo, matchRepo)
	svc := NewKnockoutService(tournamentRepo, matchRepo, standings, live.NewHub(), testLogger())
	return tournamentRepo, matchRepo, svc
}

func TestSeedKnockoutStage(t *testing.T) {
	convey.Convey("Given a tournament with finished group play", t, func() {
		tournamentRepo, matchRepo, svc := knockoutFixtureSetup()
		ctx := context.Background()

		convey.Convey("When the knockout stage is seeded", func() {
			pairings, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then qualifiers pair consecutively across groups", func() {
				convey.So(len(pairings), convey.ShouldEqual, 2)
				// Group A winner vs Group A runner-up order follows the
				// flattened qualifier list.
				convey.So(pairings[0].Home.SquadID, convey.ShouldEqual, 1)
				convey.So(pairings[0].Away.SquadID, convey.ShouldEqual, 2)
				convey.So(pairings[1].Home.SquadID, convey.ShouldEqual, 4)
				convey.So(pairings[1].Away.SquadID, convey.ShouldEqual, 3)
			})

			convey.Convey("Then fixture records exist for the stage", func() {
				fixtures, ferr := matchRepo.ListKnockoutByStage(ctx, 5, "semi_final")
				convey.So(ferr, convey.ShouldBeNil)
				convey.So(len(fixtures), convey.ShouldEqual, 2)
				convey.So(fixtures[0].Status, convey.ShouldEqual, models.MatchStatusUpcoming)
				convey.So(fixtures[0].BracketUID, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When seeding runs a second time after results change", func() {
			_, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(err, convey.ShouldBeNil)
			before, _ := matchRepo.ListKnockoutByStage(ctx, 5, "semi_final")

			// Tigers overtake Falcons.
			matchRepo.add(models.Match{
				TournamentID: 5, Stage: models.StageGroup, Status: models.MatchStatusFinished,
				SideA: models.MatchSide{SquadID: 2, Runs: 200, Balls: 120},
				SideB: models.MatchSide{SquadID: 1, Runs: 80, Balls: 120},
			})

			pairings, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(err, convey.ShouldBeNil)
			after, _ := matchRepo.ListKnockoutByStage(ctx, 5, "semi_final")

			convey.Convey("Then fixtures are reconciled in place, not duplicated", func() {
				convey.So(len(after), convey.ShouldEqual, 2)
				convey.So(after[0].ID, convey.ShouldEqual, before[0].ID)
				convey.So(after[1].ID, convey.ShouldEqual, before[1].ID)
			})

			convey.Convey("Then updated fixtures keep their identity fields", func() {
				convey.So(after[0].CreatedAt, convey.ShouldEqual, before[0].CreatedAt)
				convey.So(*after[0].BracketUID, convey.ShouldEqual, *before[0].BracketUID)
			})

			convey.Convey("Then the new seeding order is applied", func() {
				convey.So(pairings[0].Home.SquadID, convey.ShouldEqual, 2)
				convey.So(after[0].SideA.SquadID, convey.ShouldEqual, 2)
				convey.So(after[0].SideB.SquadID, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When surplus fixture records exist for the stage", func() {
			_, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(err, convey.ShouldBeNil)
			stageKey := "semi_final"
			extra := matchRepo.add(models.Match{
				TournamentID: 5, Status: models.MatchStatusUpcoming, StageKey: &stageKey,
			})

			_, err = svc.SeedKnockoutStage(ctx, 5)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the surplus record is deleted", func() {
				fixtures, _ := matchRepo.ListKnockoutByStage(ctx, 5, "semi_final")
				convey.So(len(fixtures), convey.ShouldEqual, 2)
				_, gerr := matchRepo.GetByID(ctx, extra.ID)
				convey.So(gerr, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When automatic seeding is disabled", func() {
			tournament := knockoutTournament()
			tournament.Knockout.AutoSeed = false
			_ = tournamentRepo.Create(ctx, &tournament)

			_, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(errors.Is(err, ErrKnockoutAutoSeedDisabled), convey.ShouldBeTrue)
		})

		convey.Convey("When no knockout stage is enabled", func() {
			tournament := knockoutTournament()
			tournament.Knockout.Stages[0].Enabled = false
			_ = tournamentRepo.Create(ctx, &tournament)

			_, err := svc.SeedKnockoutStage(ctx, 5)
			convey.So(errors.Is(err, ErrKnockoutNotConfigured), convey.ShouldBeTrue)
		})

		convey.Convey("When the qualifier list cannot fill the stage", func() {
			tournament := knockoutTournament()
			tournament.Knockout.Stages[0].RequiredMatches = 4
			_ = tournamentRepo.Create(ctx, &tournament)

			_, err := svc.SeedKnockoutStage(ctx, 5)

			convey.Convey("Then seeding fails closed and writes nothing", func() {
				convey.So(errors.Is(err, ErrInsufficientQualifiers), convey.ShouldBeTrue)
				fixtures, _ := matchRepo.ListKnockoutByStage(ctx, 5, "semi_final")
				convey.So(len(fixtures), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the tournament does not exist", func() {
			_, err := svc.SeedKnockoutStage(ctx, 404)
			convey.So(errors.Is(err, ErrTournamentNotFound), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a tournament without group definitions", t, func() {
		tournamentRepo := newFakeTournamentRepo(models.Tournament{
			ID: 9, Knockout: models.KnockoutConfig{
				AutoSeed: true,
				Stages:   []models.KnockoutStageDef{{Key: "final", RequiredMatches: 1, Enabled: true}},
			},
		})
		matchRepo := newFakeMatchRepo()
		standings := NewStandingsService(tournamentRepo, newFakeSquadRepo(), matchRepo)
		svc := NewKnockoutService(tournamentRepo, matchRepo, standings, live.NewHub(), testLogger())

		_, err := svc.SeedKnockoutStage(context.Background(), 9)
		convey.So(errors.Is(err, ErrGroupStageNotConfigured), convey.ShouldBeTrue)
	})
}
