package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrScheduleConflict 排班时间冲突：同一志愿者在该日期已有重叠时段的排班
// 由数据库排他约束（schedule_entries_no_overlap）在写入时兜底触发
var ErrScheduleConflict = errors.New("该时段与已有排班冲突")
