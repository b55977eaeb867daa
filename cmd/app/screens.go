package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/service"
)

// runWizard walks the intake questions. Returns false when the user
// quits mid-wizard.
func runWizard(ctx context.Context, in *bufio.Reader, wizard *service.WizardService) bool {
	fmt.Println("\n---- Intake wizard ----")
	for {
		q, ok := wizard.CurrentQuestion()
		if !ok {
			return true
		}
		step, total := wizard.StepNumber()
		fmt.Printf("\n[%d/%d] %s\n", step, total, q.Prompt)
		if len(q.Choices) > 0 {
			fmt.Println("   options:", q.Choices)
		}
		if msg := wizard.LastError(); msg != "" {
			fmt.Println("[!]", msg)
		}

		answer := readLine(in, "> ")
		if answer == "quit" {
			return false
		}

		if err := wizard.SubmitCurrentAnswer(ctx, answer); err != nil {
			fmt.Println("[!]", describeErr(err))
			continue
		}
		if wizard.Mode() == service.ModeChat {
			fmt.Println("\nYour plan is ready.")
			return true
		}
	}
}

func runChat(ctx context.Context, in *bufio.Reader, chat *service.ChatSession) {
	fmt.Println("\n---- Coach chat (blank line to leave) ----")
	printMessages(chat.History())
	for {
		text := readLine(in, "you> ")
		if text == "" {
			return
		}
		if err := chat.SendFollowUp(ctx, text); err != nil {
			// The failure is already injected into the transcript as a
			// coach message; show the tail and keep the loop alive.
			printLastMessage(chat.History())
			continue
		}
		printLastMessage(chat.History())
	}
}

func runVersions(in *bufio.Reader, chat *service.ChatSession) {
	versions := chat.Versions()
	if len(versions) == 0 {
		fmt.Println("No plan versions yet.")
		return
	}
	selected := chat.SelectedVersion()
	fmt.Println("\n---- Plan versions ----")
	for i := range versions {
		marker := " "
		if i == selected {
			marker = "*"
		}
		fmt.Printf("%s v%d\n", marker, i+1)
	}
	raw := readLine(in, "Select version (blank to keep): ")
	if raw == "" {
		fmt.Println(chat.CurrentPlan())
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil || chat.SelectVersion(n-1) != nil {
		fmt.Println("[!] No such version.")
		return
	}
	fmt.Println(chat.CurrentPlan())
}

func runHistory(ctx context.Context, in *bufio.Reader, chat *service.ChatSession) {
	convs, err := chat.Conversations(ctx)
	if err != nil {
		fmt.Println("[!] Could not load history:", describeErr(err))
		return
	}
	if len(convs) == 0 {
		fmt.Println("No past conversations.")
		return
	}
	fmt.Println("\n---- Conversations ----")
	for _, c := range convs {
		fmt.Printf("%d) %s (%s)\n", c.ConversationID, c.Title, c.CreatedAt)
	}
	raw := readLine(in, "Open conversation (blank to go back): ")
	if raw == "" {
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("[!] Not a conversation id.")
		return
	}
	if err := chat.LoadConversation(ctx, id); err != nil {
		fmt.Println("[!] Could not open conversation:", describeErr(err))
		return
	}
	printMessages(chat.History())
}

func runWorkout(ctx context.Context, in *bufio.Reader, workout *service.WorkoutService) {
	if err := workout.Refresh(ctx); err != nil {
		fmt.Println("[!] Could not load workout:", describeErr(err))
		if workout.Current() == nil {
			return
		}
	}

	for {
		current := workout.Current()
		if current == nil {
			fmt.Println("No active workout plan.")
			return
		}
		fmt.Printf("\n---- %s (%.0f%% complete) ----\n", current.ProgramName, current.CompletionPercentage)
		printPlan(current.Plan)
		if p := workout.Progress(); p != nil {
			fmt.Printf("Workouts: %d | Streak: %d days | Time: %d min\n", p.TotalWorkouts, p.CurrentStreak, p.TotalTime)
		}
		if week, day, ok := workout.ActiveSession(); ok {
			fmt.Printf("Session running: %s %s (%ds elapsed)\n", week, day, workout.ElapsedSeconds())
		}

		fmt.Println("\nt <id>) toggle exercise | s) start session | e) end session | r) refresh | b) back")
		line := readLine(in, "> ")
		switch {
		case line == "b", line == "":
			return
		case line == "r":
			if err := workout.Refresh(ctx); err != nil {
				fmt.Println("[!]", describeErr(err))
			}
		case line == "s":
			week := readLine(in, "Week (e.g. Week 1): ")
			day := readLine(in, "Day (e.g. Day 1): ")
			if err := workout.StartSession(week, day); err != nil {
				fmt.Println("[!]", err)
			}
		case line == "e":
			notes := readLine(in, "Notes: ")
			if err := workout.EndSession(ctx, notes); err != nil {
				fmt.Println("[!] Session not submitted:", describeErr(err))
			} else {
				fmt.Println("Session logged.")
			}
		case len(line) > 2 && line[:2] == "t ":
			id := line[2:]
			ex := current.Plan.FindExercise(id)
			if ex == nil {
				fmt.Println("[!] Unknown exercise id.")
				continue
			}
			if err := workout.ToggleExercise(ctx, id, !ex.Completed); err != nil {
				fmt.Println("[!] Toggle failed, change reverted:", describeErr(err))
			}
		}
	}
}

func runDashboard(ctx context.Context, in *bufio.Reader, dashboard *service.DashboardService) {
	fmt.Println("Periods:", service.DashboardPeriods)
	period := readLine(in, "Period (blank for 30_days): ")
	data, err := dashboard.Fetch(ctx, period)
	if err != nil {
		fmt.Println("[!] Dashboard unavailable:", describeErr(err))
		return
	}
	pretty, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(pretty))
}

func printMessages(msgs []model.ChatMessage) {
	for _, m := range msgs {
		printMessage(m)
	}
}

func printLastMessage(msgs []model.ChatMessage) {
	if len(msgs) == 0 {
		return
	}
	printMessage(msgs[len(msgs)-1])
}

func printMessage(m model.ChatMessage) {
	who := "coach"
	if m.Role == model.RoleUser {
		who = "you"
	}
	if m.IsError {
		who = "coach!"
	}
	fmt.Printf("%s> %s\n", who, m.Text)
}

func printPlan(plan model.WorkoutPlan) {
	weeks := make([]string, 0, len(plan))
	for w := range plan {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	for _, w := range weeks {
		days := make([]string, 0, len(plan[w]))
		for d := range plan[w] {
			days = append(days, d)
		}
		sort.Strings(days)
		for _, d := range days {
			day := plan[w][d]
			fmt.Printf("%s / %s (%s)\n", w, d, day.Label)
			for _, ex := range day.Exercises {
				check := " "
				if ex.Completed {
					check = "x"
				}
				fmt.Printf("  [%s] %-8s %s (%dx%d, rest %ds)\n", check, ex.ID, ex.Name, ex.Sets, ex.Reps, ex.RestSeconds)
			}
		}
	}
}
