package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/config"
	"github.com/roboco-io/deckstream/internal/generate"
	"github.com/roboco-io/deckstream/internal/store"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "저장된 덱 관리",
	Long: `generate --save로 저장한 덱을 관리합니다.

데이터베이스 위치: ~/.deckstream/decks.db (설정: store.path)

하위 명령:
  list           저장된 덱 목록
  show <id>      덱 출력 (ID 앞부분만 입력해도 됨)
  delete <id>    덱 삭제`,
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "저장된 덱 목록",
	Args:  cobra.NoArgs,
	RunE:  runDecksList,
}

var decksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "저장된 덱 출력",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksShow,
}

var decksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "저장된 덱 삭제",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksDelete,
}

var decksOutput outputOptions

func init() {
	decksOutput.register(decksShowCmd, false)

	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksShowCmd)
	decksCmd.AddCommand(decksDeleteCmd)

	rootCmd.AddCommand(decksCmd)
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 열기 실패: %w", err)
	}
	logger.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func saveDeck(ctx context.Context, cfg *config.Config, res *generate.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openStore(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer s.Close()

	id, err := s.Save(ctx, res.Deck)
	if err != nil {
		if errors.Is(err, store.ErrUnfinished) {
			return "", fmt.Errorf("생성이 끝나지 않은 덱은 저장할 수 없습니다")
		}
		return "", fmt.Errorf("덱 저장 실패: %w", err)
	}
	return id, nil
}

func runDecksList(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, s *store.Store) error {
		list, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("목록 조회 실패: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "저장된 덱이 없습니다.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "ID\t제목\t슬라이드\t생성일")
		fmt.Fprintln(w, "--\t----\t-------\t-----")
		for _, d := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				d.ID[:8], d.Title, d.SlideCount, d.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func runDecksShow(cmd *cobra.Command, args []string) error {
	if err := decksOutput.validate(); err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, s *store.Store) error {
		rec, err := s.Get(ctx, args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("덱을 찾을 수 없습니다: %s", args[0])
			}
			return fmt.Errorf("덱 조회 실패: %w", err)
		}
		return writeDeck(cmd, rec.Deck, "", decksOutput)
	})
}

func runDecksDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, s *store.Store) error {
		rec, err := s.Get(ctx, args[0])
		if err == nil {
			err = s.Delete(ctx, rec.ID)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("덱을 찾을 수 없습니다: %s", args[0])
			}
			return fmt.Errorf("덱 삭제 실패: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "덱 삭제됨: %s\n", rec.ID)
		return nil
	})
}
