package engine

// Suit constants, packed into the upper 4 bits of Card. The order doubles as
// the manilha tie-break: paus beats copas beats espadas beats ouros.
const (
	SuitOuros   uint8 = 0
	SuitEspadas uint8 = 1
	SuitCopas   uint8 = 2
	SuitPaus    uint8 = 3
)

// Rank constants, packed into the lower 4 bits of Card. Ranks are numbered in
// the fixed strength cycle, 4 weakest and 3 strongest.
const (
	RankFour  uint8 = 0
	RankFive  uint8 = 1
	RankSix   uint8 = 2
	RankSeven uint8 = 3
	RankQueen uint8 = 4
	RankJack  uint8 = 5
	RankKing  uint8 = 6
	RankAce   uint8 = 7
	RankTwo   uint8 = 8
	RankThree uint8 = 9
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Valid reports whether c is one of the 40 cards of the deck.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Suit() < NumSuits && c.Rank() < NumRanks
}

// Side identifies one of the two seats at the table.
type Side uint8

const (
	SidePlayer   Side = 0
	SideOpponent Side = 1
)

// Valid reports whether s names one of the two seats.
func (s Side) Valid() bool { return s <= SideOpponent }

// Other returns the opposing side.
func (s Side) Other() Side { return 1 - s }

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideOpponent:
		return "opponent"
	}
	return "unknown"
}

// Result is the outcome of a trick or a hand. ResultPlayer and ResultOpponent
// share their numeric value with the matching Side.
type Result uint8

const (
	ResultPlayer   Result = Result(SidePlayer)
	ResultOpponent Result = Result(SideOpponent)
	ResultDraw     Result = 2
)

// ResultFor returns the winning Result for a side.
func ResultFor(s Side) Result { return Result(s) }

// Side returns the winning side, or false for a draw.
func (r Result) Side() (Side, bool) {
	if r == ResultDraw {
		return 0, false
	}
	return Side(r), true
}

func (r Result) String() string {
	switch r {
	case ResultPlayer:
		return "player"
	case ResultOpponent:
		return "opponent"
	case ResultDraw:
		return "draw"
	}
	return "unknown"
}

// Response is an answer to a pending raise.
type Response uint8

const (
	ResponseAccept Response = iota // 0
	ResponseRun                    // 1
	ResponseRaise                  // 2
)

func (r Response) String() string {
	switch r {
	case ResponseAccept:
		return "accept"
	case ResponseRun:
		return "run"
	case ResponseRaise:
		return "raise"
	}
	return "unknown"
}

// DecisionContext describes what kind of decision the acting side must make.
type DecisionContext uint8

const (
	CtxPlay     DecisionContext = iota // 0: play a card, optionally raise first
	CtxRespond                         // 1: answer a pending raise
	CtxTerminal                        // 2: match over
)

// EndReason records how a hand finished.
type EndReason uint8

const (
	EndNone   EndReason = iota // 0
	EndTricks                  // 1: decided by the trick history
	EndRun                     // 2: a side ran from a raise
)

// PlayedCard is one side's card on the table for the current trick.
type PlayedCard struct {
	Card   Card
	Hidden bool
}

// Present reports whether a card was played.
func (p PlayedCard) Present() bool { return p.Card != EmptyCard }

// emptyPlay is the table slot of a side that has not played yet.
var emptyPlay = PlayedCard{Card: EmptyCard}

// ---------------------------------------------------------------------------
// Action index constants
// ---------------------------------------------------------------------------

const (
	ActionBasePlay       uint16 = 0 // Play(0)..Play(2)
	ActionBasePlayHidden uint16 = 3 // PlayHidden(0)..PlayHidden(2)
	ActionRaise          uint16 = 6
	ActionAccept         uint16 = 7
	ActionRun            uint16 = 8

	NumActions uint16 = 9

	actionNone uint16 = 0xFFFF
)

// EncodePlay returns the action index for playing the card in hand slot slot face up.
func EncodePlay(slot uint8) uint16 { return ActionBasePlay + uint16(slot) }

// EncodePlayHidden returns the action index for playing the card in hand slot slot face down.
func EncodePlayHidden(slot uint8) uint16 { return ActionBasePlayHidden + uint16(slot) }

// ActionIsPlay returns the hand slot if idx encodes a face-up play.
func ActionIsPlay(idx uint16) (slot uint8, ok bool) {
	if idx >= ActionBasePlay && idx < ActionBasePlayHidden {
		return uint8(idx - ActionBasePlay), true
	}
	return 0, false
}

// ActionIsPlayHidden returns the hand slot if idx encodes a face-down play.
func ActionIsPlayHidden(idx uint16) (slot uint8, ok bool) {
	if idx >= ActionBasePlayHidden && idx < ActionRaise {
		return uint8(idx - ActionBasePlayHidden), true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// LastActionInfo is the public observation of the last engine call.
// ---------------------------------------------------------------------------

// TrickRecord is a completed trick.
type TrickRecord struct {
	Number uint8 // 1-based
	Cards  [2]PlayedCard
	Result Result
}

// LastActionInfo summarises everything the most recent successful call did,
// so a caller can emit events without diffing states.
type LastActionInfo struct {
	ActionIdx uint16
	Actor     Side
	Card      Card
	Hidden    bool
	BetValue  uint8 // proposed value for a raise, new stake for an accept

	TrickResolved bool
	Trick         TrickRecord

	HandEnded  bool
	HandNumber uint16 // number of the hand that ended
	HandResult Result
	HandPoints uint8
	HandReason EndReason

	MatchOver bool
}
