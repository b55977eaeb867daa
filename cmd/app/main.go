package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/config"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/service"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

func main() {
	printStartUpBanner()

	_ = godotenv.Load()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := utilities.SetupLogging(cfg.Logging.Dir, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays, cfg.Logging.Debug); err != nil {
		log.Printf("file logging disabled: %v", err)
	}

	client := api.NewCoachClient(cfg.Coach.BaseURL, cfg.Timeout())
	authService := service.NewAuthService(client, utilities.GlobalEventBus)

	in := bufio.NewReader(os.Stdin)
	user := signIn(in, authService)

	chat := service.NewChatSession(client, user.UID, utilities.GlobalEventBus)
	wizard := service.NewWizardService(client, user.UID, chat)
	wizard.SetNumericValidation(cfg.NumericValidation())
	workout := service.NewWorkoutService(client, user.UID, utilities.GlobalEventBus)
	dashboard := service.NewDashboardService(client, user.UID)

	ctx := context.Background()
	if _, err := wizard.Start(ctx); err != nil {
		// The mount-time check has no conversational surface yet, so the
		// failure is a blocking alert before the wizard takes over.
		fmt.Println("\n[!] Could not check for an existing plan:", describeErr(err))
		fmt.Println("    Starting the intake wizard.")
	}

	for {
		if wizard.Mode() == service.ModeWizard {
			if !runWizard(ctx, in, wizard) {
				return
			}
			continue
		}

		fmt.Println("\n==== ZENFIT ====")
		fmt.Println("1) Chat with coach")
		fmt.Println("2) Plan versions")
		fmt.Println("3) Download current plan (PDF)")
		fmt.Println("4) Conversation history")
		fmt.Println("5) Workout log")
		fmt.Println("6) Dashboard")
		fmt.Println("7) Restart intake wizard")
		fmt.Println("0) Quit")

		switch readLine(in, "> ") {
		case "1":
			runChat(ctx, in, chat)
		case "2":
			runVersions(in, chat)
		case "3":
			path, err := chat.DownloadCurrentVersion(ctx, cfg.Coach.DownloadDir)
			if err != nil {
				fmt.Println("[!] Download failed:", describeErr(err))
			} else {
				fmt.Println("Saved", path)
			}
		case "4":
			runHistory(ctx, in, chat)
		case "5":
			runWorkout(ctx, in, workout)
		case "6":
			runDashboard(ctx, in, dashboard)
		case "7":
			wizard.Restart()
		case "0", "q", "quit":
			authService.SignOut()
			return
		}
	}
}

func signIn(in *bufio.Reader, auth service.AuthService) *model.AuthUser {
	for {
		fmt.Println("\n1) Sign in  2) Sign up")
		choice := readLine(in, "> ")

		ctx := context.Background()
		switch choice {
		case "2":
			username := readLine(in, "Username: ")
			email := readLine(in, "Email: ")
			pass := readPassword("Password: ")
			user, err := auth.SignUp(ctx, username, email, pass)
			if err != nil {
				fmt.Println("[!] Sign-up failed:", describeErr(err))
				continue
			}
			fmt.Println("Welcome,", user.DisplayName)
			return user
		default:
			email := readLine(in, "Email: ")
			pass := readPassword("Password: ")
			user, err := auth.SignIn(ctx, email, pass)
			if err != nil {
				fmt.Println("[!] Sign-in failed:", describeErr(err))
				continue
			}
			fmt.Println("Welcome back,", user.DisplayName)
			return user
		}
	}
}

func readLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		// Not a terminal (piped input); fall back to a plain read.
		r := bufio.NewReader(os.Stdin)
		line, _ := r.ReadString('\n')
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(string(pass))
}

func describeErr(err error) string {
	if api.IsUnavailable(err) {
		return "coach service unreachable, check your connection"
	}
	if be, ok := api.AsBackendError(err); ok {
		return be.Message
	}
	return err.Error()
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("ZENFIT", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("ZENFIT trainer (v%s)\n\n", "1.0.0")
}
