package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/calendar"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/testutil"
)

func TestValidate(t *testing.T) {
	database := testutil.NewTestDB(t)
	clk := testutil.NewClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	g := New(database.Queries, clk, 3)

	terrain := testutil.InsertResource(t, database, "Terrain 3", models.ResourceKindFacility, "manager-1")
	lions := testutil.InsertResource(t, database, "Lions", models.ResourceKindTeam, "team-lions")
	testutil.InsertResource(t, database, "Tigers", models.ResourceKindTeam, "team-tigers")

	cal := calendar.New(database.Queries, clk)
	taken := models.Span{ResourceID: terrain.ID, Date: "2024-03-16", StartHour: 20, Hours: 1}
	if err := cal.Occupy(context.Background(), terrain, taken, models.Holder{Kind: models.HolderBooking, ID: "bk-1"}, models.OccupancyConfirmed); err != nil {
		t.Fatalf("occupy: %v", err)
	}

	facility := func(mut func(*Proposal)) Proposal {
		p := Proposal{
			SenderID:    "player-a",
			ReceiverID:  "manager-1",
			Kind:        models.RequestKindFacilityBooking,
			ResourceRef: terrain.ID,
			Date:        "2024-03-16",
			StartHour:   18,
			Hours:       1,
		}
		if mut != nil {
			mut(&p)
		}
		return p
	}

	tests := []struct {
		name     string
		proposal Proposal
		want     error
	}{
		{name: "ok", proposal: facility(nil)},
		{name: "ok by slug", proposal: facility(func(p *Proposal) { p.ResourceRef = terrain.Slug })},
		{name: "direct booking without receiver", proposal: facility(func(p *Proposal) { p.ReceiverID = "" })},
		{name: "self referential", proposal: facility(func(p *Proposal) { p.ReceiverID = "player-a" }), want: models.ErrSelfReferential},
		{name: "unknown resource", proposal: facility(func(p *Proposal) { p.ResourceRef = "terrain-99" }), want: models.ErrResourceUnknown},
		{name: "missing resource", proposal: facility(func(p *Proposal) { p.ResourceRef = "" }), want: models.ErrResourceUnknown},
		{name: "facility request on team", proposal: facility(func(p *Proposal) { p.ResourceRef = lions.ID }), want: models.ErrResourceUnknown},
		{name: "before opening", proposal: facility(func(p *Proposal) { p.StartHour = 6 }), want: models.ErrOutsideOperatingWindow},
		{name: "span past closing", proposal: facility(func(p *Proposal) { p.StartHour = 21; p.Hours = 2 }), want: models.ErrOutsideOperatingWindow},
		{name: "already started", proposal: facility(func(p *Proposal) { p.Date = "2024-03-15"; p.StartHour = 12 }), want: models.ErrOutsideOperatingWindow},
		{name: "slot taken", proposal: facility(func(p *Proposal) { p.StartHour = 20 }), want: models.ErrSlotTaken},
		{name: "span overlaps taken", proposal: facility(func(p *Proposal) { p.StartHour = 19; p.Hours = 2 }), want: models.ErrSlotTaken},
		{name: "span too long", proposal: facility(func(p *Proposal) { p.Hours = 4 }), want: models.ErrInvalidInput},
		{name: "unknown kind", proposal: facility(func(p *Proposal) { p.Kind = "TOURNAMENT" }), want: models.ErrInvalidInput},
		{
			name: "invite resolves receiver team",
			proposal: Proposal{
				SenderID: "team-tigers", ReceiverID: "team-lions", Kind: models.RequestKindMatchInvite,
				Date: "2024-03-16", StartHour: 18, Hours: 1,
			},
		},
		{
			name: "invite own team calendar",
			proposal: Proposal{
				SenderID: "team-lions", ReceiverID: "team-tigers", Kind: models.RequestKindTeamInvite,
				ResourceRef: lions.ID, Date: "2024-03-16", StartHour: 18, Hours: 1,
			},
			want: models.ErrSelfReferential,
		},
		{
			name: "invite receiver without team",
			proposal: Proposal{
				SenderID: "team-tigers", ReceiverID: "player-a", Kind: models.RequestKindMatchInvite,
				Date: "2024-03-16", StartHour: 18, Hours: 1,
			},
			want: models.ErrResourceUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Validate(context.Background(), tc.proposal)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected proposal to pass, got %v", err)
				}
				if res.ID == "" {
					t.Fatal("expected resolved resource")
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolveResource_InviteUsesReceiverTeam(t *testing.T) {
	database := testutil.NewTestDB(t)
	g := New(database.Queries, testutil.NewClock(time.Now()), 0)
	lions := testutil.InsertResource(t, database, "Lions", models.ResourceKindTeam, "team-lions")

	res, err := g.ResolveResource(context.Background(), models.RequestKindTeamInvite, "", "team-lions")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.ID != lions.ID {
		t.Fatalf("expected %s, got %s", lions.ID, res.ID)
	}
}
