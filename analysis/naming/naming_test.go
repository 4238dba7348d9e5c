package naming

import "testing"

func TestSanitize(t *testing.T) {
	for _, test := range []struct{ in, exp string }{
		{"main", "main"},
		{"std::sync::Mutex::<T>::lock", "std_sync_Mutex_T_lock"},
		{"std::thread::JoinHandle::<T>::join", "std_thread_JoinHandle_T_join"},
		{"<Foo as Bar>::baz", "FooasBar_baz"},
		{"main::{closure#0}", "main__closure_0_"},
		{"ünïcode", "_n_code"},
	} {
		if got := Sanitize(test.in); got != test.exp {
			t.Errorf("Sanitize(%q) = %q, expected %q", test.in, got, test.exp)
		}
	}
}

func TestFunctionLabels(t *testing.T) {
	f := NewFunction(Instance("main", 0))

	exp := []string{
		"main_RETURN",
		"main_RETURN_1",
		"main_GOTO_0",
		"main_GOTO_1",
		"main_DROP_0",
		"main_DROP_UNWIND_0",
		"main_UNREACHABLE_0",
	}
	got := []string{
		f.Next(RETURN),
		f.Next(RETURN),
		f.Next(GOTO),
		f.Next(GOTO),
		f.Next(DROP),
		f.Next(DROP_UNWIND),
		f.Next(UNREACHABLE),
	}
	for i := range exp {
		if got[i] != exp[i] {
			t.Errorf("label %d: expected %s, got %s", i, exp[i], got[i])
		}
	}

	sw := f.NextSwitch(2)
	if len(sw) != 2 || sw[0] != "main_SWITCH_INT_0_0" || sw[1] != "main_SWITCH_INT_0_1" {
		t.Errorf("unexpected switch labels %v", sw)
	}
	if b := f.Block(3); b != "main_BB3" {
		t.Errorf("unexpected block label %s", b)
	}
}

func TestContractLabels(t *testing.T) {
	for _, test := range []struct{ got, exp string }{
		{Call("std::mem::drop"), "std_mem_drop_CALL"},
		{CallUnwind("std::mem::drop"), "std_mem_drop_CALL_UNWIND"},
		{DivergingCall("std::process::exit"), "std_process_exit_DIVERGING_CALL"},
		{Panic("core::panicking::panic"), "core_panicking_panic_PANIC"},
		{Indexed("std::thread::spawn", 0), "std_thread_spawn_0"},
		{Unwind(Indexed("std::thread::spawn", 0)), "std_thread_spawn_0_UNWIND"},
		{Instance("foo::bar", 2), "foo_bar_2"},
		{ThreadStart(1), "THREAD_1_START"},
		{ThreadEnd(1), "THREAD_1_END"},
		{MutexUnlocked(0), "MUTEX_0_UNLOCKED"},
		{CondvarLostSignalPossible(0), "CONDVAR_0_LOST_SIGNAL_POSSIBLE"},
	} {
		if test.got != test.exp {
			t.Errorf("expected %s, got %s", test.exp, test.got)
		}
	}
}
