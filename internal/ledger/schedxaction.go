package ledger

import "github.com/leapstack-labs/leapstore/pkg/core"

// SchedXaction creates transactions from a template on a schedule.
type SchedXaction struct {
	core.Instance

	name          string
	enabled       bool
	startDate     core.Date
	endDate       core.Date
	lastOccur     core.Date
	numOccur      int
	remOccur      int
	autoCreate    bool
	autoNotify    bool
	advCreation   int
	advNotify     int
	instanceCount int
	template      *Account
}

// NewSchedXaction returns an enabled schedule whose template splits live
// under template.
func NewSchedXaction(name string, start core.Date, template *Account) *SchedXaction {
	sx := &SchedXaction{name: name, enabled: true, startDate: start, template: template}
	sx.SetGUID(core.NewGUID())
	return sx
}

func (*SchedXaction) TypeName() string { return TypeSchedXaction }

func (s *SchedXaction) Name() string              { return s.name }
func (s *SchedXaction) Enabled() bool             { return s.enabled }
func (s *SchedXaction) StartDate() core.Date      { return s.startDate }
func (s *SchedXaction) EndDate() core.Date        { return s.endDate }
func (s *SchedXaction) LastOccur() core.Date      { return s.lastOccur }
func (s *SchedXaction) NumOccur() int             { return s.numOccur }
func (s *SchedXaction) RemOccur() int             { return s.remOccur }
func (s *SchedXaction) AutoCreate() bool          { return s.autoCreate }
func (s *SchedXaction) AutoNotify() bool          { return s.autoNotify }
func (s *SchedXaction) AdvanceCreation() int      { return s.advCreation }
func (s *SchedXaction) AdvanceNotify() int        { return s.advNotify }
func (s *SchedXaction) InstanceCount() int        { return s.instanceCount }
func (s *SchedXaction) TemplateAccount() *Account { return s.template }

func (s *SchedXaction) SetName(v string)              { s.name = v; s.MarkDirty() }
func (s *SchedXaction) SetEnabled(v bool)             { s.enabled = v; s.MarkDirty() }
func (s *SchedXaction) SetStartDate(v core.Date)      { s.startDate = v; s.MarkDirty() }
func (s *SchedXaction) SetEndDate(v core.Date)        { s.endDate = v; s.MarkDirty() }
func (s *SchedXaction) SetLastOccur(v core.Date)      { s.lastOccur = v; s.MarkDirty() }
func (s *SchedXaction) SetNumOccur(v int)             { s.numOccur = v; s.MarkDirty() }
func (s *SchedXaction) SetRemOccur(v int)             { s.remOccur = v; s.MarkDirty() }
func (s *SchedXaction) SetAutoCreate(v bool)          { s.autoCreate = v; s.MarkDirty() }
func (s *SchedXaction) SetAutoNotify(v bool)          { s.autoNotify = v; s.MarkDirty() }
func (s *SchedXaction) SetAdvanceCreation(v int)      { s.advCreation = v; s.MarkDirty() }
func (s *SchedXaction) SetAdvanceNotify(v int)        { s.advNotify = v; s.MarkDirty() }
func (s *SchedXaction) SetInstanceCount(v int)        { s.instanceCount = v; s.MarkDirty() }
func (s *SchedXaction) SetTemplateAccount(v *Account) { s.template = v; s.MarkDirty() }
