// Command campusctl opens the configured campuscore store, reconciles it
// against the compiled-in defaults, and runs small operational tasks:
//
//	campusctl summary   print collection counts
//	campusctl audit     print the audit trail newest-first
//	campusctl pending   list buffered attendance payloads
//	campusctl flush     drain the attendance outbox through the gateway
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"campuscore/internal/core"
	"campuscore/internal/logging"
	"campuscore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		exitFunc(2)
		return
	}
	if err := run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "campusctl:", err)
		exitFunc(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: campusctl <summary|audit|pending|flush>")
}

func run(ctx context.Context, command string) error {
	logger := logging.FromEnv()
	logging.SetGlobal(logger)

	stores, err := core.OpenStores(ctx, core.NewDefaultRulesEngine())
	if err != nil {
		return err
	}
	service := core.NewService(stores.Persistent, stores.Sessions, stores.Outbox,
		core.WithLogger(logger))
	if err := service.Bootstrap(ctx); err != nil {
		return err
	}

	switch command {
	case "summary":
		return printSummary(ctx, service)
	case "audit":
		return printAudit(service)
	case "pending":
		return printPending(ctx, service)
	case "flush":
		flushed, err := service.FlushAttendanceOutbox(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("flushed %d attendance payload(s)\n", len(flushed))
		for _, key := range flushed {
			fmt.Println(" ", key)
		}
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printSummary(ctx context.Context, service *core.Service) error {
	return service.View(ctx, func(view core.TransactionView) error {
		fmt.Printf("students:          %d\n", len(view.ListStudents()))
		fmt.Printf("pending students:  %d\n", len(view.ListPendingStudents()))
		fmt.Printf("teachers:          %d\n", len(view.ListTeachers()))
		fmt.Printf("departments:       %d\n", len(view.Departments()))
		fmt.Printf("events:            %d\n", len(view.ListEvents()))
		fmt.Printf("leave requests:    %d\n", len(view.ListLeaveRequests()))
		fmt.Printf("announcements:     %d\n", len(view.ListAnnouncements()))
		fmt.Printf("feedback sessions: %d\n", len(view.ListFeedbackSessions()))
		fmt.Printf("audit entries:     %d\n", len(view.AuditLog()))
		return nil
	})
}

func printAudit(service *core.Service) error {
	for _, entry := range service.AuditLog() {
		fmt.Printf("%s  [%s]  %s  %s\n",
			entry.Timestamp.Format(domain.AuditTimeLayout), entry.Category, entry.ActorID, entry.Action)
	}
	return nil
}

func printPending(ctx context.Context, service *core.Service) error {
	pending, err := service.ListPendingAttendance(ctx)
	if err != nil {
		return err
	}
	for _, payload := range pending {
		fmt.Printf("%s  %d mark(s)  by %s\n",
			payload.ClassDetails.ClassKey(), len(payload.Attendance), payload.ActorID)
	}
	return nil
}
