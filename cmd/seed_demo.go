package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/db"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

const demoPassword = "demo123"

var (
	demoReports int
	demoSeed    int64

	demoStations = []string{"NDLS", "GZB", "ALJN", "TDL", "CNB", "MTJ", "AGC", "PWL"}
	demoGear     = []string{"point", "signal", "track_circuit", "axle_counter", "ei"}
	demoShifts   = []string{models.ShiftMorning, models.ShiftEvening, models.ShiftNight}
	demoCauses   = []string{"rail joint shorted", "lamp fused", "relay contact dirty", "cable cut by contractor",
		"point detection lost", "EI card reset", "axle counter miscount after track work"}
	demoClasses = []string{models.FailureRectified, models.FailureRectified, models.FailurePending, models.FailureExternal}
)

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Create a demo division and fill it with generated work reports",
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) error {
		gdb, err := db.Open(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		return seedDemo(cmd.Context(), gdb, cmd.OutOrStdout(), demoReports, demoSeed)
	}),
}

func init() {
	seedDemoCmd.Flags().IntVar(&demoReports, "reports", 500, "number of work reports to generate")
	seedDemoCmd.Flags().Int64Var(&demoSeed, "seed", 42, "random seed")
	rootCmd.AddCommand(seedDemoCmd)
}

// demoOrg is sr_dste → dste → adste → 2 sse → 4 je → 8 technicians.
var demoOrg = []struct {
	role  models.Role
	count int
}{
	{models.RoleSrDSTE, 1},
	{models.RoleDSTE, 1},
	{models.RoleADSTE, 1},
	{models.RoleSSE, 2},
	{models.RoleJE, 4},
	{models.RoleTechnician, 8},
}

func seedDemo(ctx context.Context, gdb *gorm.DB, out io.Writer, total int, seed int64) error {
	users := repository.NewUserRepo(gdb)
	hierarchy := service.NewUserService(users, nil)
	reports := service.NewWorkReportService(repository.NewWorkReportRepo(gdb), repository.NewAttachmentRepo(gdb), hierarchy, nil)

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seed))

	var above, techs []*models.User
	for _, level := range demoOrg {
		var current []*models.User
		for i := 0; i < level.count; i++ {
			u, err := demoUser(ctx, users, hash, level.role, i, above, rng)
			if err != nil {
				return err
			}
			current = append(current, u)
		}
		above = current
		if level.role == models.RoleTechnician {
			techs = current
		}
	}
	fmt.Fprintf(out, "demo division ready: %d technicians, password %q\n", len(techs), demoPassword)

	start := time.Now()
	lastReport := start
	complaints := 0
	for i := 1; i <= total; i++ {
		tech := techs[rng.Intn(len(techs))]
		claims := &auth.Claims{UserID: tech.ID, Email: tech.Email, Name: tech.Name, Role: tech.Role}
		res, err := reports.Create(ctx, claims, demoReport(rng, tech))
		if err != nil {
			return errs.Wrapf(err, "generate report %d", i)
		}
		if res.Complaint != nil {
			complaints++
		}
		if time.Since(lastReport) >= 3*time.Second || i == total {
			elapsed := time.Since(start)
			fmt.Fprintf(out, "  %6d / %d  (%5.1f%%)  %6.0f reports/s  %s\n",
				i, total, float64(i)/float64(total)*100, float64(i)/elapsed.Seconds(), elapsed.Round(time.Millisecond))
			lastReport = time.Now()
		}
	}
	fmt.Fprintf(out, "generated %d work reports, %d complaints raised\n", total, complaints)
	return nil
}

// demoUser returns the existing demo account for role and index, creating it
// under a random member of the level above when missing.
func demoUser(ctx context.Context, users *repository.UserRepo, hash string, role models.Role, i int,
	above []*models.User, rng *rand.Rand) (*models.User, error) {
	email := fmt.Sprintf("demo.%s.%d@portal.local", role, i+1)
	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	u := &models.User{
		Name:         fmt.Sprintf("%s %d", role.Label(), i+1),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Station:      demoStations[rng.Intn(len(demoStations))],
		Phone:        fmt.Sprintf("+91-9%09d", rng.Intn(1_000_000_000)),
		Active:       true,
	}
	if len(above) > 0 {
		u.SupervisorID = &above[i%len(above)].ID
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func demoReport(rng *rand.Rand, tech *models.User) service.WorkReportInput {
	day := time.Now().UTC().AddDate(0, 0, -rng.Intn(90))
	in := service.WorkReportInput{
		Date:            day.Format(models.DateLayout),
		Shift:           demoShifts[rng.Intn(len(demoShifts))],
		Station:         tech.Station,
		MaintenanceType: models.MaintenanceScheduled,
		GearType:        demoGear[rng.Intn(len(demoGear))],
		GearID:          fmt.Sprintf("G-%03d", rng.Intn(400)),
		Activities:      "routine inspection and testing",
	}
	if rng.Intn(4) == 0 {
		at := time.Date(day.Year(), day.Month(), day.Day(), rng.Intn(24), rng.Intn(60), 0, 0, time.UTC)
		in.MaintenanceType = models.MaintenanceUnscheduled
		in.FailureOccurred = true
		in.FailureGearType = demoGear[rng.Intn(len(demoGear))]
		in.FailureGearID = fmt.Sprintf("F-%03d", rng.Intn(400))
		in.FailureAt = &at
		in.FailureCause = demoCauses[rng.Intn(len(demoCauses))]
		in.FailureClassification = demoClasses[rng.Intn(len(demoClasses))]
	}
	return in
}
